package simpleble

// Peripheral is an opaque reference to a remote device.
type Peripheral interface {
	// ID is stable for the lifetime of the process. It is the MAC address on
	// Linux and the CoreBluetooth identifier on macOS.
	ID() string
}

// Service is an opaque reference to a service on a connected peripheral.
type Service interface {
	UUID() UUID
}

// Characteristic is an opaque reference to a characteristic on a connected
// peripheral.
type Characteristic interface {
	UUID() UUID
	ServiceUUID() UUID
}

// Transport is the host Bluetooth stack as seen by the Machine. None of the
// methods block on the remote device: results are delivered later as events
// through the handler installed with SetEventHandler. A returned error means
// the request could not be issued at all.
type Transport interface {
	SetEventHandler(h func(Event))
	State() AdapterState

	Scan(serviceUUIDs []UUID) error
	StopScan() error
	Connect(p Peripheral) error

	DiscoverServices(p Peripheral) error
	DiscoverCharacteristics(p Peripheral, s Service) error

	// WriteValue issues an acknowledged write (write request). The
	// acknowledgement arrives as EventWriteAcknowledged.
	WriteValue(p Peripheral, c Characteristic, value []byte) error
	// ReadValue requests the current value, which arrives as
	// EventValueUpdated.
	ReadValue(p Peripheral, c Characteristic) error
}
