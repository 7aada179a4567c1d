//go:build !linux && !darwin

package simpleble

// Adapter is a placeholder on platforms without a supported Bluetooth stack.
// Every operation fails with ErrUnsupported.
type Adapter struct {
	eventHandler func(Event)
}

// DefaultAdapter is the default adapter on the system.
var DefaultAdapter = &Adapter{}

func (a *Adapter) Enable() error { return ErrUnsupported }

func (a *Adapter) State() AdapterState { return AdapterStateUnknown }

func (a *Adapter) Scan(serviceUUIDs []UUID) error { return ErrUnsupported }

func (a *Adapter) StopScan() error { return ErrUnsupported }

func (a *Adapter) Connect(p Peripheral) error { return ErrUnsupported }

func (a *Adapter) DiscoverServices(p Peripheral) error { return ErrUnsupported }

func (a *Adapter) DiscoverCharacteristics(p Peripheral, s Service) error { return ErrUnsupported }

func (a *Adapter) WriteValue(p Peripheral, c Characteristic, value []byte) error {
	return ErrUnsupported
}

func (a *Adapter) ReadValue(p Peripheral, c Characteristic) error { return ErrUnsupported }
