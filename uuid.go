package simpleble

// This file implements 16-bit and 128-bit UUIDs as defined in the Bluetooth
// specification.

import "github.com/pkg/errors"

// UUID is a single UUID as used in the Bluetooth stack. It is represented as a
// [4]uint32 instead of a [16]byte for efficiency. uuid[3] holds the most
// significant bits.
type UUID [4]uint32

var errInvalidUUID = errors.New("simpleble: failed to parse UUID")

const hexDigits = "0123456789abcdef"

// New16BitUUID returns a new 128-bit UUID based on a 16-bit UUID.
//
// Note: only use registered UUIDs. See
// https://www.bluetooth.com/specifications/gatt/services/ for a list.
func New16BitUUID(shortUUID uint16) UUID {
	// https://stackoverflow.com/questions/36212020/how-can-i-convert-a-bluetooth-16-bit-service-uuid-into-a-128-bit-uuid
	var uuid UUID
	uuid[0] = 0x5F9B34FB
	uuid[1] = 0x80000080
	uuid[2] = 0x00001000
	uuid[3] = uint32(shortUUID)
	return uuid
}

// Is16Bit returns whether this UUID is a 16-bit BLE UUID.
func (uuid UUID) Is16Bit() bool {
	return uuid.Is32Bit() && uuid[3] == uint32(uint16(uuid[3]))
}

// Is32Bit returns whether this UUID is a 32-bit BLE UUID.
func (uuid UUID) Is32Bit() bool {
	return uuid[0] == 0x5F9B34FB && uuid[1] == 0x80000080 && uuid[2] == 0x00001000
}

// Get16Bit returns the 16-bit alias of this UUID. Only meaningful when Is16Bit
// reports true.
func (uuid UUID) Get16Bit() uint16 {
	return uint16(uuid[3])
}

// ParseUUID parses a UUID in either the 4 digit short form ("180F") or the
// full 36 character form ("0000180f-0000-1000-8000-00805f9b34fb"). Hex digits
// may be upper or lower case.
func ParseUUID(s string) (UUID, error) {
	switch len(s) {
	case 4:
		var short uint16
		for i := 0; i < len(s); i++ {
			n, ok := hexNibble(s[i])
			if !ok {
				return UUID{}, errInvalidUUID
			}
			short = short<<4 | uint16(n)
		}
		return New16BitUUID(short), nil
	case 36:
	default:
		return UUID{}, errInvalidUUID
	}

	var uuid UUID
	word := 3
	nibbles := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 8 || i == 13 || i == 18 || i == 23 {
			if c != '-' {
				return UUID{}, errInvalidUUID
			}
			continue
		}
		n, ok := hexNibble(c)
		if !ok {
			return UUID{}, errInvalidUUID
		}
		uuid[word] = uuid[word]<<4 | uint32(n)
		nibbles++
		if nibbles%8 == 0 {
			word--
		}
	}
	return uuid, nil
}

// String returns the lower case 36 character form of this UUID.
func (uuid UUID) String() string {
	var buf [36]byte
	pos := 0
	for i := 3; i >= 0; i-- {
		for shift := 28; shift >= 0; shift -= 4 {
			if pos == 8 || pos == 13 || pos == 18 || pos == 23 {
				buf[pos] = '-'
				pos++
			}
			buf[pos] = hexDigits[(uuid[i]>>uint(shift))&0xf]
			pos++
		}
	}
	return string(buf[:])
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xa, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xa, true
	}
	return 0, false
}
