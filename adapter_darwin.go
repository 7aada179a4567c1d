//go:build darwin

package simpleble

import (
	"sync"

	"github.com/JuulLabs-OSS/cbgo"
	"github.com/roberthartman/simple-ble/macbt"
)

// Adapter is the host Bluetooth adapter, reached through CoreBluetooth.
type Adapter struct {
	cm  cbgo.CentralManager
	cmd *macbt.CMDelegate
	pd  *macbt.PrphDelegate

	mu          sync.Mutex
	scanning    bool
	peripherals map[string]*darwinPeripheral

	eventHandler func(Event)
}

// DefaultAdapter is the default adapter on the system.
//
// Make sure to call Enable() before using it to initialize the adapter.
var DefaultAdapter = &Adapter{}

// Enable configures the BLE stack. It must be called before any
// Bluetooth-related calls (unless otherwise indicated).
func (a *Adapter) Enable() error {
	if a.cmd != nil {
		return nil
	}
	a.peripherals = make(map[string]*darwinPeripheral)
	a.cmd = macbt.NewCMDelegate(a.handle)
	a.pd = macbt.NewPrphDelegate(a.handle)
	a.cm = cbgo.NewCentralManager(nil)
	a.cm.SetDelegate(a.cmd)
	return nil
}

// State returns the current state of the adapter.
func (a *Adapter) State() AdapterState {
	if a.cmd == nil {
		return AdapterStateUnknown
	}
	return adapterState(a.cm.State())
}

func adapterState(s cbgo.ManagerState) AdapterState {
	switch s {
	case cbgo.ManagerStatePoweredOn:
		return AdapterStatePoweredOn
	case cbgo.ManagerStatePoweredOff:
		return AdapterStatePoweredOff
	default:
		return AdapterStateUnknown
	}
}

// handle translates a CoreBluetooth callback into an Event.
func (a *Adapter) handle(mev macbt.Event) {
	ev := Event{RSSI: mev.RSSI, Err: mev.Err}
	if mev.Kind != macbt.StateUpdated {
		ev.Peripheral = a.peripheral(mev.Peripheral)
	}

	switch mev.Kind {
	case macbt.StateUpdated:
		ev.Kind = EventAdapterStateChanged
		ev.State = adapterState(mev.Manager.State())
		if ev.State != AdapterStatePoweredOn {
			a.abortScan()
		}
	case macbt.PeripheralDiscovered:
		ev.Kind = EventPeripheralDiscovered
	case macbt.PeripheralConnected:
		ev.Kind = EventPeripheralConnected
	case macbt.PeripheralConnectFailed:
		ev.Kind = EventPeripheralConnectFailed
	case macbt.PeripheralDisconnected:
		ev.Kind = EventPeripheralDisconnected
	case macbt.ServicesDiscovered:
		ev.Kind = EventServicesDiscovered
		for _, svc := range mev.Peripheral.Services() {
			if s := makeService(svc); s != nil {
				ev.Services = append(ev.Services, s)
			}
		}
	case macbt.CharacteristicsDiscovered:
		ev.Kind = EventCharacteristicsDiscovered
		s := makeService(mev.Service)
		if s == nil {
			return
		}
		ev.Service = s
		for _, chr := range mev.Service.Characteristics() {
			if c := makeCharacteristic(s.uuid, chr); c != nil {
				ev.Characteristics = append(ev.Characteristics, c)
			}
		}
	case macbt.ValueUpdated:
		ev.Kind = EventValueUpdated
		ev.Characteristic = characteristicOf(mev.Characteristic)
		ev.Value = append([]byte(nil), mev.Characteristic.Value()...)
	case macbt.WriteAcknowledged:
		ev.Kind = EventWriteAcknowledged
		ev.Characteristic = characteristicOf(mev.Characteristic)
	case macbt.NameUpdated:
		ev.Kind = EventNameUpdated
	case macbt.ServicesModified:
		ev.Kind = EventServicesModified
	case macbt.RSSIRead:
		ev.Kind = EventRSSIRead
	case macbt.NotificationStateUpdated:
		ev.Kind = EventNotificationStateUpdated
	default:
		return
	}
	a.emit(ev)
}
