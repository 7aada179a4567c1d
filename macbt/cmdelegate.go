//go:build darwin

// Implements the CentralManagerDelegate interface.  CoreBluetooth
// communicates events asynchronously via callbacks.  This file forwards
// those callbacks as Events.

package macbt

import (
	"github.com/JuulLabs-OSS/cbgo"
)

// CMDelegate to handle callbacks from CoreBluetooth.
type CMDelegate struct {
	cbgo.CentralManagerDelegateBase

	handler func(Event)
}

// NewCMDelegate returns a central manager delegate calling handler for every
// callback it receives.
func NewCMDelegate(handler func(Event)) *CMDelegate {
	return &CMDelegate{handler: handler}
}

func (d *CMDelegate) CentralManagerDidUpdateState(cmgr cbgo.CentralManager) {
	d.handler(Event{Kind: StateUpdated, Manager: cmgr})
}

func (d *CMDelegate) DidDiscoverPeripheral(cmgr cbgo.CentralManager, prph cbgo.Peripheral,
	advFields cbgo.AdvFields, rssi int) {
	d.handler(Event{Kind: PeripheralDiscovered, Manager: cmgr, Peripheral: prph, RSSI: rssi})
}

func (d *CMDelegate) DidConnectPeripheral(cmgr cbgo.CentralManager, prph cbgo.Peripheral) {
	d.handler(Event{Kind: PeripheralConnected, Manager: cmgr, Peripheral: prph})
}

func (d *CMDelegate) DidFailToConnectPeripheral(cmgr cbgo.CentralManager, prph cbgo.Peripheral, err error) {
	d.handler(Event{Kind: PeripheralConnectFailed, Manager: cmgr, Peripheral: prph, Err: err})
}

func (d *CMDelegate) DidDisconnectPeripheral(cmgr cbgo.CentralManager, prph cbgo.Peripheral, err error) {
	d.handler(Event{Kind: PeripheralDisconnected, Manager: cmgr, Peripheral: prph, Err: err})
}
