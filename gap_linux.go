//go:build linux

package simpleble

import (
	"context"

	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/device"
	"github.com/pkg/errors"
)

// linuxPeripheral is a remote device known to BlueZ.
type linuxPeripheral struct {
	device  *device.Device1
	address MAC
}

func (p *linuxPeripheral) ID() string {
	return p.address.String()
}

func asLinuxPeripheral(p Peripheral) (*linuxPeripheral, error) {
	lp, ok := p.(*linuxPeripheral)
	if !ok || lp == nil || lp.device == nil {
		return nil, errors.Wrapf(ErrUnsupported, "peripheral %T", p)
	}
	return lp, nil
}

// Scan starts a BLE scan for devices advertising one of the given services.
// Every match is reported as EventPeripheralDiscovered until StopScan is
// called.
//
// On Linux with BlueZ, incoming packets cannot be observed directly. Instead,
// existing devices are watched for property changes. This closely simulates the
// behavior as if the actual packets were observed, but it has flaws: it is
// possible some events are missed and perhaps even possible that some events
// are duplicated.
func (a *Adapter) Scan(serviceUUIDs []UUID) error {
	if a.adapter == nil {
		return ErrNotEnabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancelScan != nil {
		return ErrScanning
	}

	uuids := make([]string, 0, len(serviceUUIDs))
	for _, uuid := range serviceUUIDs {
		uuids = append(uuids, uuid.String())
	}
	// This appears to be necessary to receive any BLE discovery results at all.
	err := a.adapter.SetDiscoveryFilter(map[string]interface{}{
		"Transport": "le",
		"UUIDs":     uuids,
	})
	if err != nil {
		return errors.Wrap(err, "set discovery filter")
	}

	// Instruct BlueZ to start discovering.
	if err := a.adapter.StartDiscovery(); err != nil {
		return errors.Wrap(err, "start discovery")
	}

	// Listen for newly found devices.
	discoveryChan, cancelDiscovery, err := a.adapter.OnDeviceDiscovered()
	if err != nil {
		a.adapter.StopDiscovery()
		return errors.Wrap(err, "watch discovered devices")
	}

	// BlueZ won't show advertisement data as it is discovered. Instead, it
	// caches all the data and only produces events for changes. Cached
	// devices are watched for property changes: when any value changes, a
	// new advertisement packet has been received.
	devices, err := a.adapter.GetDevices()
	if err != nil {
		cancelDiscovery()
		a.adapter.StopDiscovery()
		return errors.Wrap(err, "list cached devices")
	}

	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelScan = func() {
		cancel()
		cancelDiscovery()
	}
	for _, dev := range devices {
		a.startWatchingDevice(ctx, dev, serviceUUIDs)
	}

	go func() {
		// Iterate through new devices as they become visible.
		for {
			select {
			case <-ctx.Done():
				return
			case result, ok := <-discoveryChan:
				if !ok {
					return
				}
				if result.Type != adapter.DeviceAdded {
					continue
				}
				// We only got a DBus object path, so turn that into a Device1 object.
				dev, err := device.NewDevice1(result.Path)
				if err != nil || dev == nil {
					continue
				}
				a.reportDevice(dev, serviceUUIDs)
				a.startWatchingDevice(ctx, dev, serviceUUIDs)
			}
		}
	}()
	return nil
}

// StopScan stops any in-progress scan. If no scan is in progress, an error
// will be returned.
func (a *Adapter) StopScan() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancelScan == nil {
		return ErrNotScanning
	}
	a.cancelScan()
	a.cancelScan = nil
	return errors.Wrap(a.adapter.StopDiscovery(), "stop discovery")
}

// abortScan forgets a scan that BlueZ dropped on its own, as it does when the
// adapter powers off, so that the next Scan can start a new one.
func (a *Adapter) abortScan() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancelScan != nil {
		a.cancelScan()
		a.cancelScan = nil
	}
}

// reportDevice emits a discovery event if the device advertises one of the
// wanted services.
func (a *Adapter) reportDevice(dev *device.Device1, serviceUUIDs []UUID) {
	if !advertisesAny(dev, serviceUUIDs) {
		return
	}
	addr, err := ParseMAC(dev.Properties.Address)
	if err != nil {
		return
	}
	a.emit(Event{
		Kind:       EventPeripheralDiscovered,
		Peripheral: &linuxPeripheral{device: dev, address: addr},
		RSSI:       int(dev.Properties.RSSI),
	})
}

func advertisesAny(dev *device.Device1, serviceUUIDs []UUID) bool {
	if len(serviceUUIDs) == 0 {
		return true
	}
	for _, s := range dev.Properties.UUIDs {
		// Assume the UUID is well-formed.
		uuid, err := ParseUUID(s)
		if err != nil {
			continue
		}
		for _, want := range serviceUUIDs {
			if uuid == want {
				return true
			}
		}
	}
	return false
}

// startWatchingDevice starts watching for property changes in the device
// while the scan lasts. Errors are ignored (for example, if watching the
// device failed). The dev object will be owned by the function and will be
// modified as properties change.
func (a *Adapter) startWatchingDevice(ctx context.Context, dev *device.Device1, serviceUUIDs []UUID) {
	ch, err := dev.WatchProperties()
	if err != nil {
		// Assume the device has disappeared or something.
		return
	}
	go func() {
		defer dev.UnwatchProperties(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-ch:
				if !ok || change == nil {
					return
				}
				// Update the device with the changed property.
				props, _ := dev.Properties.ToMap()
				props[change.Name] = change.Value
				dev.Properties, _ = dev.Properties.FromMap(props)

				if change.Name == "RSSI" {
					a.reportDevice(dev, serviceUUIDs)
				}
			}
		}
	}()
}

// Connect starts connecting to the peripheral. The result arrives as
// EventPeripheralConnected or EventPeripheralConnectFailed. A later loss of
// the connection is reported as EventPeripheralDisconnected.
func (a *Adapter) Connect(p Peripheral) error {
	lp, err := asLinuxPeripheral(p)
	if err != nil {
		return err
	}
	if err := a.watchConnection(lp); err != nil {
		return err
	}
	go func() {
		if err := lp.device.Connect(); err != nil {
			a.emit(Event{Kind: EventPeripheralConnectFailed, Peripheral: lp, Err: errors.Wrap(err, "connect")})
			return
		}
		a.emit(Event{Kind: EventPeripheralConnected, Peripheral: lp})
	}()
	return nil
}

// watchConnection reports EventPeripheralDisconnected whenever BlueZ clears
// the Connected property of the device. Each device is watched once for the
// lifetime of the adapter.
func (a *Adapter) watchConnection(lp *linuxPeripheral) error {
	path := lp.device.Path()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watched[path] {
		return nil
	}
	ch, err := lp.device.WatchProperties()
	if err != nil {
		return errors.Wrap(err, "watch device properties")
	}
	a.watched[path] = true

	go func() {
		defer func() {
			a.mu.Lock()
			delete(a.watched, path)
			a.mu.Unlock()
		}()
		for {
			select {
			case <-a.ctx.Done():
				return
			case change, ok := <-ch:
				if !ok || change == nil {
					return
				}
				if change.Interface != "org.bluez.Device1" || change.Name != "Connected" {
					continue
				}
				if connected, ok := change.Value.(bool); ok && !connected {
					a.emit(Event{Kind: EventPeripheralDisconnected, Peripheral: lp})
				}
			}
		}
	}()
	return nil
}
