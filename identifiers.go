package simpleble

import "github.com/pkg/errors"

// UUIDs of the probed peripheral. They are fixed: the peripheral firmware
// exposes exactly these.
var (
	WriteServiceUUID        = mustParseUUID("A42E0030-06F4-43F1-8503-88AE85FFB300")
	WriteCharacteristicUUID = mustParseUUID("A42E0032-06F4-43F1-8503-88AE85FFB300")

	BatteryServiceUUID             = New16BitUUID(0x180F)
	BatteryLevelCharacteristicUUID = New16BitUUID(0x2A19)
)

func mustParseUUID(s string) UUID {
	uuid, err := ParseUUID(s)
	if err != nil {
		panic(errors.Wrapf(err, "parse %q", s))
	}
	return uuid
}

// Role names the purpose a bound characteristic serves.
type Role int

const (
	RoleWrite Role = iota
	RoleBattery
)

func (r Role) String() string {
	switch r {
	case RoleWrite:
		return "write"
	case RoleBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// initialCounter is the write cycle counter value before the first write.
const initialCounter uint8 = 1

// TransmittedValue returns the byte sent for the given write cycle counter.
// Even counters are sent as 0, so the peripheral sees 0,1,0,3,0,5,...
func TransmittedValue(counter uint8) uint8 {
	if counter%2 == 0 {
		return 0
	}
	return counter
}

// NextCounter advances the write cycle counter, wrapping from 255 to 0.
func NextCounter(counter uint8) uint8 {
	if counter == 255 {
		return 0
	}
	return counter + 1
}

// EncodeWriteValue encodes a write value as it goes on the wire.
func EncodeWriteValue(v uint8) []byte {
	return []byte{v}
}

// DecodeWriteValue decodes a value read from the write characteristic. The
// value must be exactly one byte.
func DecodeWriteValue(b []byte) (uint8, error) {
	return decodeByte(b)
}

// DecodeBatteryLevel decodes the battery level characteristic: one byte
// holding a percentage. Values above 100 are reserved.
func DecodeBatteryLevel(b []byte) (uint8, error) {
	level, err := decodeByte(b)
	if err != nil {
		return 0, err
	}
	if level > 100 {
		return 0, errors.Wrapf(ErrDecode, "battery level %d out of range", level)
	}
	return level, nil
}

func decodeByte(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, errors.Wrapf(ErrDecode, "expected 1 byte, got %d", len(b))
	}
	return b[0], nil
}

// isCharacteristic reports whether c is the characteristic identified by the
// given service and characteristic UUIDs.
func isCharacteristic(c Characteristic, service, char UUID) bool {
	return c != nil && c.UUID() == char && c.ServiceUUID() == service
}
