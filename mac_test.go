package simpleble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMAC(t *testing.T) {
	mac, err := ParseMAC("11:22:33:AA:BB:CC")
	require.NoError(t, err)
	assert.Equal(t, MAC{0xCC, 0xBB, 0xAA, 0x33, 0x22, 0x11}, mac)
	assert.Equal(t, "11:22:33:AA:BB:CC", mac.String())

	lower, err := ParseMAC("11:22:33:aa:bb:cc")
	require.NoError(t, err)
	assert.Equal(t, mac, lower)
}

func TestParseMACInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"11:22:33:AA:BB",
		"11:22:33:AA:BB:CC:",
		"11-22-33-AA-BB-CC",
		"11:22:33:AA:BB:CG",
	} {
		_, err := ParseMAC(s)
		assert.Equal(t, errInvalidMAC, err, s)
	}
}
