//go:build darwin

package simpleble

import (
	"github.com/JuulLabs-OSS/cbgo"
	"github.com/pkg/errors"
)

type darwinService struct {
	uuid    UUID
	service cbgo.Service
}

func (s *darwinService) UUID() UUID { return s.uuid }

func makeService(svc cbgo.Service) *darwinService {
	uuid, err := ParseUUID(svc.UUID().String())
	if err != nil {
		return nil
	}
	return &darwinService{uuid: uuid, service: svc}
}

type darwinCharacteristic struct {
	uuid           UUID
	serviceUUID    UUID
	characteristic cbgo.Characteristic
}

func (c *darwinCharacteristic) UUID() UUID        { return c.uuid }
func (c *darwinCharacteristic) ServiceUUID() UUID { return c.serviceUUID }

func makeCharacteristic(serviceUUID UUID, chr cbgo.Characteristic) *darwinCharacteristic {
	uuid, err := ParseUUID(chr.UUID().String())
	if err != nil {
		return nil
	}
	return &darwinCharacteristic{uuid: uuid, serviceUUID: serviceUUID, characteristic: chr}
}

// characteristicOf wraps a characteristic seen in a value or write callback.
// A nil interface is returned when the UUIDs cannot be parsed, so the
// machine ignores the event.
func characteristicOf(chr cbgo.Characteristic) Characteristic {
	s := makeService(chr.Service())
	if s == nil {
		return nil
	}
	c := makeCharacteristic(s.uuid, chr)
	if c == nil {
		return nil
	}
	return c
}

func asDarwinCharacteristic(c Characteristic) (*darwinCharacteristic, error) {
	dc, ok := c.(*darwinCharacteristic)
	if !ok || dc == nil {
		return nil, errors.Wrapf(ErrUnsupported, "characteristic %T", c)
	}
	return dc, nil
}

// DiscoverServices asks CoreBluetooth for all services of the peripheral.
// They are reported as EventServicesDiscovered.
func (a *Adapter) DiscoverServices(p Peripheral) error {
	dp, err := asDarwinPeripheral(p)
	if err != nil {
		return err
	}
	dp.prph.DiscoverServices(nil)
	return nil
}

// DiscoverCharacteristics asks CoreBluetooth for all characteristics of the
// service. They are reported as EventCharacteristicsDiscovered.
func (a *Adapter) DiscoverCharacteristics(p Peripheral, s Service) error {
	dp, err := asDarwinPeripheral(p)
	if err != nil {
		return err
	}
	ds, ok := s.(*darwinService)
	if !ok || ds == nil {
		return errors.Wrapf(ErrUnsupported, "service %T", s)
	}
	dp.prph.DiscoverCharacteristics(nil, ds.service)
	return nil
}

// WriteValue writes with response; the acknowledgement is reported as
// EventWriteAcknowledged.
func (a *Adapter) WriteValue(p Peripheral, c Characteristic, value []byte) error {
	dp, err := asDarwinPeripheral(p)
	if err != nil {
		return err
	}
	dc, err := asDarwinCharacteristic(c)
	if err != nil {
		return err
	}
	dp.prph.WriteCharacteristic(value, dc.characteristic, true)
	return nil
}

// ReadValue reads the characteristic; the value is reported as
// EventValueUpdated.
func (a *Adapter) ReadValue(p Peripheral, c Characteristic) error {
	dp, err := asDarwinPeripheral(p)
	if err != nil {
		return err
	}
	dc, err := asDarwinCharacteristic(c)
	if err != nil {
		return err
	}
	dp.prph.ReadCharacteristic(dc.characteristic)
	return nil
}
