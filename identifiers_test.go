package simpleble

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmittedValue(t *testing.T) {
	for n := 0; n < 256; n++ {
		v := TransmittedValue(uint8(n))
		if n%2 == 0 {
			assert.Equal(t, uint8(0), v, "counter %d", n)
		} else {
			assert.Equal(t, uint8(n), v, "counter %d", n)
		}
	}
}

func TestNextCounter(t *testing.T) {
	assert.Equal(t, uint8(2), NextCounter(initialCounter))
	assert.Equal(t, uint8(255), NextCounter(254))
	assert.Equal(t, uint8(0), NextCounter(255))

	c := initialCounter
	for i := 0; i < 256; i++ {
		c = NextCounter(c)
	}
	assert.Equal(t, initialCounter, c)
}

func TestWriteValueEncoding(t *testing.T) {
	tests := []struct {
		in      []byte
		want    uint8
		wantErr bool
	}{
		{in: []byte{0}, want: 0},
		{in: []byte{7}, want: 7},
		{in: []byte{255}, want: 255},
		{in: nil, wantErr: true},
		{in: []byte{}, wantErr: true},
		{in: []byte{1, 0}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := DecodeWriteValue(tt.in)
		if tt.wantErr {
			require.Error(t, err, "%v", tt.in)
			assert.Equal(t, ErrDecode, errors.Cause(err))
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, EncodeWriteValue(got))
	}
}

func TestIsCharacteristic(t *testing.T) {
	assert.True(t, isCharacteristic(writeChar, WriteServiceUUID, WriteCharacteristicUUID))
	assert.False(t, isCharacteristic(batteryChar, WriteServiceUUID, WriteCharacteristicUUID))
	assert.False(t, isCharacteristic(nil, WriteServiceUUID, WriteCharacteristicUUID))

	// Same characteristic UUID under another service.
	stray := &fakeCharacteristic{WriteCharacteristicUUID, BatteryServiceUUID}
	assert.False(t, isCharacteristic(stray, WriteServiceUUID, WriteCharacteristicUUID))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "write", RoleWrite.String())
	assert.Equal(t, "battery", RoleBattery.String())
	assert.Equal(t, "unknown", Role(9).String())
}

func TestDecodeBatteryLevel(t *testing.T) {
	tests := []struct {
		in      []byte
		want    uint8
		wantErr bool
	}{
		{in: []byte{0}, want: 0},
		{in: []byte{87}, want: 87},
		{in: []byte{100}, want: 100},
		{in: []byte{101}, wantErr: true},
		{in: nil, wantErr: true},
		{in: []byte{50, 0}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := DecodeBatteryLevel(tt.in)
		if tt.wantErr {
			require.Error(t, err, "%v", tt.in)
			assert.Equal(t, ErrDecode, errors.Cause(err))
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
