//go:build linux

// Some documentation for the BlueZ D-Bus interface:
// https://git.kernel.org/pub/scm/bluetooth/bluez.git/tree/doc

package simpleble

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/api"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/pkg/errors"
)

// Adapter is the host Bluetooth adapter, reached through BlueZ.
type Adapter struct {
	adapter *adapter.Adapter1
	id      string

	ctx         context.Context             // context for our event watcher, canceled on power off event
	cancel      context.CancelFunc          // cancel function to halt our event watcher context
	propchanged chan *bluez.PropertyChanged // channel that adapter property changes will show up on

	mu         sync.Mutex
	cancelScan context.CancelFunc
	watched    map[dbus.ObjectPath]bool // devices watched for disconnects

	eventHandler func(Event)
}

// DefaultAdapter is the default adapter on the system. On Linux, it is the
// first adapter available.
//
// Make sure to call Enable() before using it to initialize the adapter.
var DefaultAdapter = &Adapter{}

// Enable configures the BLE stack. It must be called before any
// Bluetooth-related calls (unless otherwise indicated).
func (a *Adapter) Enable() (err error) {
	if a.id != "" {
		return nil
	}
	a.adapter, err = api.GetDefaultAdapter()
	if err != nil {
		return errors.Wrap(err, "get default adapter")
	}
	a.id, err = a.adapter.GetAdapterID()
	if err != nil {
		return errors.Wrap(err, "get adapter id")
	}
	a.watched = make(map[dbus.ObjectPath]bool)
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a.watchForStateChange()
}

// Address returns the MAC address of the adapter.
func (a *Adapter) Address() (MAC, error) {
	if a.adapter == nil {
		return MAC{}, ErrNotEnabled
	}
	return ParseMAC(a.adapter.Properties.Address)
}

// State returns the current state of the adapter.
func (a *Adapter) State() AdapterState {
	if a.adapter == nil {
		return AdapterStateUnknown
	}

	powered, err := a.adapter.GetPowered()
	if err != nil {
		return AdapterStateUnknown
	}
	if powered {
		return AdapterStatePoweredOn
	}
	return AdapterStatePoweredOff
}

// watchForStateChange watches for a signal from the bluez adapter interface
// that indicates a Powered/Unpowered event.
//
// We can add extra signals to watch for here,
// see https://git.kernel.org/pub/scm/bluetooth/bluez.git/tree/doc/adapter-api.txt, for a full list
func (a *Adapter) watchForStateChange() error {
	var err error
	a.propchanged, err = a.adapter.WatchProperties()
	if err != nil {
		return errors.Wrap(err, "watch adapter properties")
	}

	go func() {
		for {
			select {
			case changed := <-a.propchanged:
				// we will receive a nil if bluez.UnwatchProperties(a, ch) is called, if so we can stop watching
				if changed == nil {
					a.cancel()
					return
				}
				if changed.Name != "Powered" {
					continue
				}
				state := AdapterStatePoweredOff
				if powered, ok := changed.Value.(bool); ok && powered {
					state = AdapterStatePoweredOn
				} else {
					a.abortScan()
				}
				a.emit(Event{Kind: EventAdapterStateChanged, State: state})
			case <-a.ctx.Done():
				return
			}
		}
	}()

	return nil
}
