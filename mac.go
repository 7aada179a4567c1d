package simpleble

import (
	"strings"

	"github.com/pkg/errors"
)

// MAC represents a MAC address, in little endian format.
type MAC [6]byte

var errInvalidMAC = errors.New("simpleble: failed to parse MAC address")

// ParseMAC parses the given MAC address, which must be in 11:22:33:AA:BB:CC
// format. BlueZ reports addresses in upper case, but lower case digits are
// accepted too.
func ParseMAC(s string) (mac MAC, err error) {
	if len(s) != 17 {
		return MAC{}, errInvalidMAC
	}
	for i := 0; i < 6; i++ {
		pos := i * 3
		if i != 5 && s[pos+2] != ':' {
			return MAC{}, errInvalidMAC
		}
		hi, ok1 := hexNibble(s[pos])
		lo, ok2 := hexNibble(s[pos+1])
		if !ok1 || !ok2 {
			return MAC{}, errInvalidMAC
		}
		mac[5-i] = hi<<4 | lo
	}
	return mac, nil
}

// String returns a human-readable version of this MAC address, such as
// 11:22:33:AA:BB:CC.
func (mac MAC) String() string {
	const digits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(17)
	for i := 5; i >= 0; i-- {
		if i != 5 {
			b.WriteByte(':')
		}
		b.WriteByte(digits[mac[i]>>4])
		b.WriteByte(digits[mac[i]&0x0f])
	}
	return b.String()
}
