//go:build darwin

// Implements the PeripheralDelegate interface for connected peripherals.

package macbt

import (
	"github.com/JuulLabs-OSS/cbgo"
)

// PrphDelegate to handle callbacks from a connected peripheral.
type PrphDelegate struct {
	cbgo.PeripheralDelegateBase

	handler func(Event)
}

// NewPrphDelegate returns a peripheral delegate calling handler for every
// callback it receives.
func NewPrphDelegate(handler func(Event)) *PrphDelegate {
	return &PrphDelegate{handler: handler}
}

func (d *PrphDelegate) DidDiscoverServices(prph cbgo.Peripheral, err error) {
	d.handler(Event{Kind: ServicesDiscovered, Peripheral: prph, Err: err})
}

func (d *PrphDelegate) DidDiscoverCharacteristics(prph cbgo.Peripheral, svc cbgo.Service, err error) {
	d.handler(Event{Kind: CharacteristicsDiscovered, Peripheral: prph, Service: svc, Err: err})
}

func (d *PrphDelegate) DidUpdateValueForCharacteristic(prph cbgo.Peripheral, chr cbgo.Characteristic, err error) {
	d.handler(Event{Kind: ValueUpdated, Peripheral: prph, Characteristic: chr, Err: err})
}

func (d *PrphDelegate) DidWriteValueForCharacteristic(prph cbgo.Peripheral, chr cbgo.Characteristic, err error) {
	d.handler(Event{Kind: WriteAcknowledged, Peripheral: prph, Characteristic: chr, Err: err})
}

func (d *PrphDelegate) DidUpdateNotificationState(prph cbgo.Peripheral, chr cbgo.Characteristic, err error) {
	d.handler(Event{Kind: NotificationStateUpdated, Peripheral: prph, Characteristic: chr, Err: err})
}

func (d *PrphDelegate) DidUpdateName(prph cbgo.Peripheral) {
	d.handler(Event{Kind: NameUpdated, Peripheral: prph})
}

func (d *PrphDelegate) DidModifyServices(prph cbgo.Peripheral, invSvcs []cbgo.Service) {
	d.handler(Event{Kind: ServicesModified, Peripheral: prph})
}

func (d *PrphDelegate) DidReadRSSI(prph cbgo.Peripheral, rssi int, err error) {
	d.handler(Event{Kind: RSSIRead, Peripheral: prph, RSSI: rssi, Err: err})
}
