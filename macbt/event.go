//go:build darwin

// Package macbt turns the CoreBluetooth delegate callbacks delivered by cbgo
// into a single stream of events. It is not designed to be used directly by
// applications: the simpleble package translates these events into its own.
package macbt

import (
	"github.com/JuulLabs-OSS/cbgo"
)

// EventKind identifies the delegate callback an Event came from.
type EventKind int

const (
	StateUpdated EventKind = iota
	PeripheralDiscovered
	PeripheralConnected
	PeripheralConnectFailed
	PeripheralDisconnected
	ServicesDiscovered
	CharacteristicsDiscovered
	ValueUpdated
	WriteAcknowledged
	NameUpdated
	ServicesModified
	RSSIRead
	NotificationStateUpdated
)

// Event carries the arguments of one delegate callback.
type Event struct {
	Kind           EventKind
	Manager        cbgo.CentralManager
	Peripheral     cbgo.Peripheral
	Service        cbgo.Service
	Characteristic cbgo.Characteristic
	RSSI           int
	Err            error
}
