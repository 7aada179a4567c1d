package simpleble

// EventKind identifies one variant of Event.
type EventKind int

const (
	EventAdapterStateChanged EventKind = iota
	EventPeripheralDiscovered
	EventPeripheralConnected
	EventPeripheralConnectFailed
	EventPeripheralDisconnected
	EventServicesDiscovered
	EventCharacteristicsDiscovered
	EventValueUpdated
	EventWriteAcknowledged

	// Reported by some platforms, but not acted upon.
	EventNameUpdated
	EventServicesModified
	EventRSSIRead
	EventNotificationStateUpdated

	// Posted by the machine itself.
	EventWriteTimer
	EventBatteryTimer
	EventReconnect
	EventManualWrite
)

var eventKindNames = [...]string{
	EventAdapterStateChanged:       "adapter-state-changed",
	EventPeripheralDiscovered:      "peripheral-discovered",
	EventPeripheralConnected:       "peripheral-connected",
	EventPeripheralConnectFailed:   "peripheral-connect-failed",
	EventPeripheralDisconnected:    "peripheral-disconnected",
	EventServicesDiscovered:        "services-discovered",
	EventCharacteristicsDiscovered: "characteristics-discovered",
	EventValueUpdated:              "value-updated",
	EventWriteAcknowledged:         "write-acknowledged",
	EventNameUpdated:               "name-updated",
	EventServicesModified:          "services-modified",
	EventRSSIRead:                  "rssi-read",
	EventNotificationStateUpdated:  "notification-state-updated",
	EventWriteTimer:                "write-timer",
	EventBatteryTimer:              "battery-timer",
	EventReconnect:                 "reconnect",
	EventManualWrite:               "manual-write",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is a single asynchronous occurrence delivered to the Machine. Which
// fields are set depends on Kind:
//
//	EventAdapterStateChanged        State
//	EventPeripheralDiscovered       Peripheral, RSSI
//	EventPeripheralConnected        Peripheral
//	EventPeripheralConnectFailed    Peripheral, Err
//	EventPeripheralDisconnected     Peripheral, Err
//	EventServicesDiscovered         Peripheral, Services, Err
//	EventCharacteristicsDiscovered  Peripheral, Service, Characteristics, Err
//	EventValueUpdated               Peripheral, Characteristic, Value, Err
//	EventWriteAcknowledged          Peripheral, Characteristic, Err
//	EventReconnect                  Peripheral
type Event struct {
	Kind EventKind

	State           AdapterState
	Peripheral      Peripheral
	Service         Service
	Services        []Service
	Characteristic  Characteristic
	Characteristics []Characteristic
	Value           []byte
	RSSI            int
	Err             error
}
