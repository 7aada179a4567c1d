//go:build linux

package simpleble

import (
	"sort"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/gatt"
	"github.com/pkg/errors"
)

// servicesResolvedTimeout bounds the wait for BlueZ to finish its own
// service discovery after connecting.
const servicesResolvedTimeout = 10 * time.Second

type linuxService struct {
	uuid    UUID
	service *gatt.GattService1
}

func (s *linuxService) UUID() UUID { return s.uuid }

type linuxCharacteristic struct {
	uuid           UUID
	serviceUUID    UUID
	characteristic *gatt.GattCharacteristic1
}

func (c *linuxCharacteristic) UUID() UUID        { return c.uuid }
func (c *linuxCharacteristic) ServiceUUID() UUID { return c.serviceUUID }

func asLinuxCharacteristic(c Characteristic) (*linuxCharacteristic, error) {
	lc, ok := c.(*linuxCharacteristic)
	if !ok || lc == nil || lc.characteristic == nil {
		return nil, errors.Wrapf(ErrUnsupported, "characteristic %T", c)
	}
	return lc, nil
}

// DiscoverServices reports all services of the peripheral as
// EventServicesDiscovered.
//
// On Linux with BlueZ, this just waits for the ServicesResolved signal (if
// services haven't been resolved yet) and uses this list of cached services.
func (a *Adapter) DiscoverServices(p Peripheral) error {
	lp, err := asLinuxPeripheral(p)
	if err != nil {
		return err
	}
	go func() {
		services, err := lp.services()
		a.emit(Event{Kind: EventServicesDiscovered, Peripheral: lp, Services: services, Err: err})
	}()
	return nil
}

func (p *linuxPeripheral) services() ([]Service, error) {
	start := time.Now()
	for {
		resolved, err := p.device.GetServicesResolved()
		if err != nil {
			return nil, errors.Wrap(err, "services resolved")
		}
		if resolved {
			break
		}
		// This is a terrible hack, but I couldn't find another way.
		time.Sleep(10 * time.Millisecond)
		if time.Since(start) > servicesResolvedTimeout {
			return nil, errors.New("timeout on DiscoverServices")
		}
	}

	paths, err := childObjects(p.device.Path(), "service")
	if err != nil {
		return nil, err
	}
	var services []Service
	for _, path := range paths {
		service, err := gatt.NewGattService1(path)
		if err != nil {
			return nil, errors.Wrapf(err, "service %s", path)
		}
		uuid, err := ParseUUID(service.Properties.UUID)
		if err != nil {
			continue
		}
		services = append(services, &linuxService{uuid: uuid, service: service})
	}
	return services, nil
}

// DiscoverCharacteristics reports all characteristics of the service as
// EventCharacteristicsDiscovered.
func (a *Adapter) DiscoverCharacteristics(p Peripheral, s Service) error {
	lp, err := asLinuxPeripheral(p)
	if err != nil {
		return err
	}
	ls, ok := s.(*linuxService)
	if !ok || ls == nil || ls.service == nil {
		return errors.Wrapf(ErrUnsupported, "service %T", s)
	}
	go func() {
		chars, err := ls.characteristics()
		a.emit(Event{
			Kind:            EventCharacteristicsDiscovered,
			Peripheral:      lp,
			Service:         ls,
			Characteristics: chars,
			Err:             err,
		})
	}()
	return nil
}

func (s *linuxService) characteristics() ([]Characteristic, error) {
	paths, err := childObjects(s.service.Path(), "char")
	if err != nil {
		return nil, err
	}
	var chars []Characteristic
	for _, path := range paths {
		characteristic, err := gatt.NewGattCharacteristic1(path)
		if err != nil {
			return nil, errors.Wrapf(err, "characteristic %s", path)
		}
		uuid, err := ParseUUID(characteristic.Properties.UUID)
		if err != nil {
			continue
		}
		chars = append(chars, &linuxCharacteristic{
			uuid:           uuid,
			serviceUUID:    s.uuid,
			characteristic: characteristic,
		})
	}
	return chars, nil
}

// childObjects returns, in sorted order, the object paths managed by BlueZ
// that are direct children of parent and whose name starts with kind.
func childObjects(parent dbus.ObjectPath, kind string) ([]dbus.ObjectPath, error) {
	om, err := bluez.GetObjectManager()
	if err != nil {
		return nil, errors.Wrap(err, "object manager")
	}
	list, err := om.GetManagedObjects()
	if err != nil {
		return nil, errors.Wrap(err, "managed objects")
	}
	prefix := string(parent) + "/"
	objects := make([]string, 0, len(list))
	for objectPath := range list {
		path := string(objectPath)
		if !strings.HasPrefix(path, prefix+kind) {
			continue
		}
		if strings.Contains(path[len(prefix):], "/") {
			continue
		}
		objects = append(objects, path)
	}
	sort.Strings(objects)

	paths := make([]dbus.ObjectPath, len(objects))
	for i, o := range objects {
		paths[i] = dbus.ObjectPath(o)
	}
	return paths, nil
}

// WriteValue writes with a write request, so BlueZ only returns once the
// peripheral has acknowledged the write.
func (a *Adapter) WriteValue(p Peripheral, c Characteristic, value []byte) error {
	lc, err := asLinuxCharacteristic(c)
	if err != nil {
		return err
	}
	buf := append([]byte(nil), value...)
	go func() {
		err := lc.characteristic.WriteValue(buf, map[string]interface{}{
			"type": "request",
		})
		a.emit(Event{Kind: EventWriteAcknowledged, Peripheral: p, Characteristic: lc, Err: errors.Wrap(err, "write")})
	}()
	return nil
}

// ReadValue reads the current characteristic value.
func (a *Adapter) ReadValue(p Peripheral, c Characteristic) error {
	lc, err := asLinuxCharacteristic(c)
	if err != nil {
		return err
	}
	go func() {
		value, err := lc.characteristic.ReadValue(map[string]interface{}{})
		a.emit(Event{
			Kind:           EventValueUpdated,
			Peripheral:     p,
			Characteristic: lc,
			Value:          value,
			Err:            errors.Wrap(err, "read"),
		})
	}()
	return nil
}
