//go:build darwin

package simpleble

import (
	"github.com/JuulLabs-OSS/cbgo"
	"github.com/pkg/errors"
)

type darwinPeripheral struct {
	prph cbgo.Peripheral
	id   string
}

func (p *darwinPeripheral) ID() string { return p.id }

// peripheral returns the wrapper for prph, creating it on first sight so that
// every event about the same device carries the same Peripheral.
func (a *Adapter) peripheral(prph cbgo.Peripheral) *darwinPeripheral {
	id := prph.Identifier().String()
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.peripherals[id]; ok {
		return p
	}
	p := &darwinPeripheral{prph: prph, id: id}
	a.peripherals[id] = p
	return p
}

func asDarwinPeripheral(p Peripheral) (*darwinPeripheral, error) {
	dp, ok := p.(*darwinPeripheral)
	if !ok || dp == nil {
		return nil, errors.Wrapf(ErrUnsupported, "peripheral %T", p)
	}
	return dp, nil
}

// cbUUID converts a UUID to the CoreBluetooth form, which uses the short
// string for 16-bit UUIDs.
func cbUUID(uuid UUID) (cbgo.UUID, error) {
	s := uuid.String()
	if uuid.Is16Bit() {
		s = s[4:8]
	}
	return cbgo.ParseUUID(s)
}

// Scan starts a BLE scan for devices advertising one of the given services.
// Every advertisement is reported as EventPeripheralDiscovered until StopScan
// is called.
func (a *Adapter) Scan(serviceUUIDs []UUID) error {
	if a.cmd == nil {
		return ErrNotEnabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scanning {
		return ErrScanning
	}

	cbuuids := make([]cbgo.UUID, 0, len(serviceUUIDs))
	for _, uuid := range serviceUUIDs {
		u, err := cbUUID(uuid)
		if err != nil {
			return errors.Wrapf(err, "service %s", uuid)
		}
		cbuuids = append(cbuuids, u)
	}
	a.cm.Scan(cbuuids, &cbgo.CentralManagerScanOpts{})
	a.scanning = true
	return nil
}

// StopScan stops any in-progress scan. If no scan is in progress, an error
// will be returned.
func (a *Adapter) StopScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.scanning {
		return ErrNotScanning
	}
	a.cm.StopScan()
	a.scanning = false
	return nil
}

// abortScan forgets the scan CoreBluetooth stops by itself when the radio
// powers off.
func (a *Adapter) abortScan() {
	a.mu.Lock()
	a.scanning = false
	a.mu.Unlock()
}

// Connect starts connecting to the peripheral. The result arrives as
// EventPeripheralConnected or EventPeripheralConnectFailed.
func (a *Adapter) Connect(p Peripheral) error {
	dp, err := asDarwinPeripheral(p)
	if err != nil {
		return err
	}
	dp.prph.SetDelegate(a.pd)
	a.cm.Connect(dp.prph, nil)
	return nil
}
