// Package simpleble keeps a single Bluetooth Low Energy peripheral connected
// and drives a write/read exchange against it, measuring the round-trip
// latency between an acknowledged write and the value update that follows.
//
// The package is built around one state machine (Machine) that consumes
// events from a Transport. On Linux the transport is BlueZ over D-Bus, on
// macOS it is CoreBluetooth. All events are handled on a single goroutine,
// so the machine itself needs no locking.
package simpleble // import "github.com/roberthartman/simple-ble"
