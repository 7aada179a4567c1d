package simpleble

import "github.com/pkg/errors"

var (
	// ErrNoPeripheral is reported when an operation needs a peripheral but
	// none is bound.
	ErrNoPeripheral = errors.New("simpleble: no peripheral")

	// ErrNoWriteCharacteristic is reported when a write is attempted before
	// the write characteristic has been discovered.
	ErrNoWriteCharacteristic = errors.New("simpleble: write characteristic not bound")

	// ErrNoBatteryCharacteristic is reported when the battery poll fires
	// before the battery level characteristic has been discovered.
	ErrNoBatteryCharacteristic = errors.New("simpleble: battery characteristic not bound")

	// ErrDecode is reported when a characteristic value does not have the
	// expected encoding.
	ErrDecode = errors.New("simpleble: cannot decode value")

	// ErrAlreadyRunning is returned by Machine.Run when the machine has
	// already been run.
	ErrAlreadyRunning = errors.New("simpleble: machine already running")

	ErrNotEnabled  = errors.New("simpleble: adapter not enabled")
	ErrScanning    = errors.New("simpleble: a scan is already in progress")
	ErrNotScanning = errors.New("simpleble: there is no scan in progress")
	ErrUnsupported = errors.New("simpleble: not supported on this platform")
)
