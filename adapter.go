package simpleble

var _ Transport = (*Adapter)(nil)

// AdapterState is the power state of the host Bluetooth adapter.
type AdapterState int

const (
	AdapterStateUnknown AdapterState = iota
	AdapterStatePoweredOff
	AdapterStatePoweredOn
)

func (s AdapterState) String() string {
	switch s {
	case AdapterStatePoweredOff:
		return "powered-off"
	case AdapterStatePoweredOn:
		return "powered-on"
	default:
		return "unknown"
	}
}

// SetEventHandler sets the function called for every event the adapter
// produces. It may be called from any goroutine. You must call this before
// you call Enable() in order to receive adapter state changes.
func (a *Adapter) SetEventHandler(h func(Event)) {
	a.eventHandler = h
}

func (a *Adapter) emit(ev Event) {
	if h := a.eventHandler; h != nil {
		h(ev)
	}
}
