package simpleble

import (
	"strings"
	"testing"
)

func TestUUIDString(t *testing.T) {
	checkUUID(t, New16BitUUID(0x1234), "00001234-0000-1000-8000-00805f9b34fb")
	checkUUID(t, BatteryServiceUUID, "0000180f-0000-1000-8000-00805f9b34fb")
	checkUUID(t, WriteServiceUUID, "a42e0030-06f4-43f1-8503-88ae85ffb300")
}

func checkUUID(t *testing.T, uuid UUID, check string) {
	if uuid.String() != check {
		t.Errorf("expected UUID %s but got %s", check, uuid.String())
	}
}

func TestParseUUIDInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"180",
		"180G",
		"00001234-0000-1000-8000-00805f9b34f",
		"00001234-0000-1000-8000-00805F9B34FB0",
		"00001234+0000-1000-8000-00805f9b34fb",
		"0000123x-0000-1000-8000-00805f9b34fb",
	} {
		if _, e := ParseUUID(s); e != errInvalidUUID {
			t.Errorf("%q: expected errInvalidUUID but got %v", s, e)
		}
	}
}

func TestParseUUIDShort(t *testing.T) {
	for _, s := range []string{"180F", "180f"} {
		u, e := ParseUUID(s)
		if e != nil {
			t.Fatalf("%q: expected nil but got %v", s, e)
		}
		if u != BatteryServiceUUID {
			t.Errorf("%q: expected %s but got %s", s, BatteryServiceUUID, u)
		}
		if !u.Is16Bit() || u.Get16Bit() != 0x180F {
			t.Errorf("%q: expected 16-bit UUID 0x180F", s)
		}
	}
}

func TestIs16Bit(t *testing.T) {
	if WriteServiceUUID.Is16Bit() || WriteServiceUUID.Is32Bit() {
		t.Errorf("%s is a full 128-bit UUID", WriteServiceUUID)
	}
	if !BatteryLevelCharacteristicUUID.Is32Bit() {
		t.Errorf("%s fits in 32 bits", BatteryLevelCharacteristicUUID)
	}
}

func TestStringUUID(t *testing.T) {
	uuidString := "00001234-0000-1000-8000-00805f9b34fb"
	u, e := ParseUUID(uuidString)
	if e != nil {
		t.Errorf("expected nil but got %v", e)
	}
	if u.String() != uuidString {
		t.Errorf("expected %s but got %s", uuidString, u.String())
	}
}

func TestStringUUIDUpperCase(t *testing.T) {
	uuidString := strings.ToUpper("a42e0032-06f4-43f1-8503-88ae85ffb300")
	u, e := ParseUUID(uuidString)
	if e != nil {
		t.Errorf("expected nil but got %v", e)
	}
	if u != WriteCharacteristicUUID {
		t.Errorf("%s does not match %s", u, WriteCharacteristicUUID)
	}
	if !strings.EqualFold(u.String(), uuidString) {
		t.Errorf("%s does not match %s ignoring case", uuidString, u.String())
	}
}

func BenchmarkUUIDToString(b *testing.B) {
	uuid, e := ParseUUID("00001234-0000-1000-8000-00805f9b34fb")
	if e != nil {
		b.Errorf("expected nil but got %v", e)
	}
	for i := 0; i < b.N; i++ {
		_ = uuid.String()
	}
}
