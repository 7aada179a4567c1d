package simpleble

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the connection state of the Machine.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateConnecting
	StateDiscovering
	StateBound
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateConnecting:
		return "connecting"
	case StateDiscovering:
		return "discovering"
	case StateBound:
		return "bound"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

const eventQueueSize = 64

// Machine keeps one peripheral connected and runs the write exchange on it.
//
// Events from the transport, from timers and from TriggerWrite are queued
// with Post and handled one at a time by Run. state and running are atomic;
// the fields after them are only touched from that goroutine.
type Machine struct {
	transport Transport
	cfg       Config
	log       logrus.FieldLogger

	events  chan Event
	done    chan struct{}
	state   int32
	running int32

	peripheral Peripheral
	bindings   map[Role]Characteristic

	counter   uint8
	lastWrite time.Time
	phase     exchangePhase

	// scanning is set while discovery events may start a new connection.
	scanning bool

	writeTimer     taskSlot
	batteryTimer   taskSlot
	reconnectTimer taskSlot
	attempt        int
}

// NewMachine returns a machine driving the given transport. It installs
// itself as the transport's event handler.
func NewMachine(t Transport, cfg Config) *Machine {
	cfg.setDefaults()
	m := &Machine{
		transport: t,
		cfg:       cfg,
		log:       cfg.Logger,
		events:    make(chan Event, eventQueueSize),
		done:      make(chan struct{}),
		bindings:  make(map[Role]Characteristic),
		counter:   initialCounter,
	}
	t.SetEventHandler(m.Post)
	return m
}

// Post queues an event for the machine. It is safe to call from any
// goroutine. After Run has returned, events are dropped.
func (m *Machine) Post(ev Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// TriggerWrite asks the machine to issue a write outside of the normal cycle.
func (m *Machine) TriggerWrite() {
	m.Post(Event{Kind: EventManualWrite})
}

// State returns the current connection state. It may be called from any
// goroutine.
func (m *Machine) State() State {
	return State(atomic.LoadInt32(&m.state))
}

// Run starts scanning if the adapter is already powered on and then handles
// events until ctx is done. All timers are stopped on return. A machine runs
// once; later calls return ErrAlreadyRunning.
func (m *Machine) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return ErrAlreadyRunning
	}
	defer close(m.done)
	defer m.stopTasks()

	m.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-m.events:
			m.Handle(ev)
		}
	}
}

// Start checks the adapter state once and starts scanning if it is powered
// on. Later power-on transitions arrive as events.
func (m *Machine) Start() {
	if st := m.transport.State(); st == AdapterStatePoweredOn {
		m.scan()
	} else {
		m.log.WithField("adapter", st).Info("waiting for adapter to power on")
	}
}

// Handle processes a single event. It must only be called from the
// goroutine running the machine.
func (m *Machine) Handle(ev Event) {
	switch ev.Kind {
	case EventAdapterStateChanged:
		m.onAdapterState(ev)
	case EventPeripheralDiscovered:
		m.onDiscovered(ev)
	case EventPeripheralConnected:
		m.onConnected(ev)
	case EventPeripheralConnectFailed:
		m.onConnectFailed(ev)
	case EventPeripheralDisconnected:
		m.onDisconnected(ev)
	case EventServicesDiscovered:
		m.onServicesDiscovered(ev)
	case EventCharacteristicsDiscovered:
		m.onCharacteristicsDiscovered(ev)
	case EventValueUpdated:
		m.onValueUpdated(ev)
	case EventWriteAcknowledged:
		m.onWriteAcknowledged(ev)
	case EventWriteTimer:
		m.onWriteTimer()
	case EventBatteryTimer:
		m.pollBattery()
	case EventReconnect:
		m.onReconnect(ev)
	case EventManualWrite:
		m.issueWrite()
	case EventNameUpdated, EventServicesModified, EventRSSIRead, EventNotificationStateUpdated:
		m.log.WithField("event", ev.Kind).Debug("ignoring event")
	default:
		m.log.WithField("event", ev.Kind).Warn("unknown event")
	}
}

func (m *Machine) setState(s State) {
	old := State(atomic.SwapInt32(&m.state, int32(s)))
	if old != s {
		m.log.WithField("state", s).Debugf("state %s -> %s", old, s)
	}
}

func (m *Machine) peripheralLog(p Peripheral) logrus.FieldLogger {
	if p == nil {
		return m.log
	}
	return m.log.WithField("peripheral", p.ID())
}

// isCurrent reports whether p refers to the bound peripheral.
func (m *Machine) isCurrent(p Peripheral) bool {
	return m.peripheral != nil && p != nil && p.ID() == m.peripheral.ID()
}

func (m *Machine) onAdapterState(ev Event) {
	m.log.WithField("adapter", ev.State).Info("adapter state changed")
	if ev.State == AdapterStatePoweredOn {
		m.scan()
		return
	}
	// The host stack drops any running scan when the radio goes away.
	m.scanning = false
}

func (m *Machine) scan() {
	if err := m.transport.Scan([]UUID{WriteServiceUUID}); err != nil {
		m.log.WithError(err).Error("cannot start scan")
		return
	}
	m.log.WithField("service", WriteServiceUUID).Info("scanning")
	m.scanning = true
	m.setState(StateScanning)
}

func (m *Machine) onDiscovered(ev Event) {
	if ev.Peripheral == nil {
		return
	}
	log := m.peripheralLog(ev.Peripheral)
	if m.cfg.StopScanOnMatch && m.peripheral != nil && !m.scanning {
		// Advertisements queued before StopScan took effect.
		log.Debug("ignoring discovery after match")
		return
	}
	log.WithField("rssi", ev.RSSI).Info("discovered")

	// The newest peripheral always wins; whatever was bound before is
	// forgotten.
	m.release()
	m.peripheral = ev.Peripheral
	m.attempt = 0

	if m.cfg.StopScanOnMatch {
		m.scanning = false
		if err := m.transport.StopScan(); err != nil {
			log.WithError(err).Warn("cannot stop scan")
		}
	}
	m.connect()
}

func (m *Machine) connect() {
	log := m.peripheralLog(m.peripheral)
	m.setState(StateConnecting)
	if err := m.transport.Connect(m.peripheral); err != nil {
		log.WithError(err).Error("cannot connect")
		if m.cfg.RetryConnectFailures {
			m.reconnect()
		}
		return
	}
	log.Info("connecting")
}

func (m *Machine) onConnected(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if !m.isCurrent(ev.Peripheral) {
		log.Warn("connected to a peripheral that is not bound")
		return
	}
	log.Info("connected")
	m.attempt = 0
	m.setState(StateDiscovering)
	if err := m.transport.DiscoverServices(m.peripheral); err != nil {
		log.WithError(err).Error("cannot discover services")
	}
}

// onConnectFailed only logs by default: a failed connect stalls the machine
// until the next discovery event.
func (m *Machine) onConnectFailed(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	log.WithError(ev.Err).Error("connect failed")
	if m.cfg.RetryConnectFailures && m.isCurrent(ev.Peripheral) {
		m.setState(StateDisconnected)
		m.reconnect()
	}
}

func (m *Machine) onDisconnected(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if !m.isCurrent(ev.Peripheral) {
		log.Debug("ignoring disconnect of a peripheral that is not bound")
		return
	}
	log.WithError(ev.Err).Info("disconnected")
	m.release()
	m.setState(StateDisconnected)
	m.reconnect()
}

// reconnect connects to the bound peripheral again, now or after the delay
// chosen by the reconnect policy.
func (m *Machine) reconnect() {
	m.attempt++
	delay := m.cfg.Reconnect(m.attempt)
	if delay <= 0 {
		m.connect()
		return
	}
	p := m.peripheral
	m.peripheralLog(p).WithField("attempt", m.attempt).Infof("reconnecting in %s", delay)
	m.reconnectTimer.startOnce(m.cfg.Scheduler, delay, func() {
		m.Post(Event{Kind: EventReconnect, Peripheral: p})
	})
}

func (m *Machine) onReconnect(ev Event) {
	m.reconnectTimer.stop()
	if !m.isCurrent(ev.Peripheral) || m.State() != StateDisconnected {
		return
	}
	m.connect()
}

func (m *Machine) onServicesDiscovered(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if !m.isCurrent(ev.Peripheral) {
		return
	}
	if ev.Err != nil {
		log.WithError(ev.Err).Error("service discovery failed")
		return
	}
	for _, s := range ev.Services {
		switch s.UUID() {
		case WriteServiceUUID, BatteryServiceUUID:
			if err := m.transport.DiscoverCharacteristics(m.peripheral, s); err != nil {
				log.WithError(err).WithField("service", s.UUID()).Error("cannot discover characteristics")
			}
		default:
			log.WithField("service", s.UUID()).Debug("ignoring service")
		}
	}
}

func (m *Machine) onCharacteristicsDiscovered(ev Event) {
	if !m.isCurrent(ev.Peripheral) || ev.Service == nil {
		return
	}
	log := m.peripheralLog(ev.Peripheral).WithField("service", ev.Service.UUID())
	if ev.Err != nil {
		log.WithError(ev.Err).Error("characteristic discovery failed")
		return
	}

	switch ev.Service.UUID() {
	case WriteServiceUUID:
		c := findCharacteristic(ev.Characteristics, WriteCharacteristicUUID)
		if c == nil {
			log.Error("write characteristic not found")
			return
		}
		m.bindings[RoleWrite] = c
		m.setState(StateBound)
		log.WithField("characteristic", c.UUID()).Info("write characteristic bound")
		m.startWriteTimer()
		m.issueWrite()
	case BatteryServiceUUID:
		c := findCharacteristic(ev.Characteristics, BatteryLevelCharacteristicUUID)
		if c == nil {
			log.Error("battery level characteristic not found")
			return
		}
		m.bindings[RoleBattery] = c
		log.WithField("characteristic", c.UUID()).Info("battery characteristic bound")
		if m.cfg.BatteryPoll {
			m.startBatteryTimer()
		}
	default:
		log.Debug("ignoring characteristics")
	}
}

func findCharacteristic(chars []Characteristic, uuid UUID) Characteristic {
	for _, c := range chars {
		if c != nil && c.UUID() == uuid {
			return c
		}
	}
	return nil
}

func (m *Machine) onValueUpdated(ev Event) {
	switch {
	case isCharacteristic(ev.Characteristic, WriteServiceUUID, WriteCharacteristicUUID):
		m.onWriteValueUpdated(ev)
	case isCharacteristic(ev.Characteristic, BatteryServiceUUID, BatteryLevelCharacteristicUUID):
		m.onBatteryValue(ev)
	default:
		m.log.Debug("ignoring value update")
	}
}

func (m *Machine) startWriteTimer() {
	if m.cfg.WriteInterval <= 0 {
		return
	}
	if !m.writeTimer.start(m.cfg.Scheduler, m.cfg.WriteInterval, func() {
		m.Post(Event{Kind: EventWriteTimer})
	}) {
		m.log.Debug("write timer already running")
	}
}

func (m *Machine) startBatteryTimer() {
	if m.cfg.BatteryInterval <= 0 {
		return
	}
	if !m.batteryTimer.start(m.cfg.Scheduler, m.cfg.BatteryInterval, func() {
		m.Post(Event{Kind: EventBatteryTimer})
	}) {
		m.log.Debug("battery timer already running")
	}
}

// release stops the periodic timers and forgets the characteristic bindings.
// The peripheral itself stays referenced so it can be reconnected.
func (m *Machine) release() {
	m.writeTimer.stop()
	m.batteryTimer.stop()
	m.reconnectTimer.stop()
	for role := range m.bindings {
		delete(m.bindings, role)
	}
	m.phase = phaseIdle
}

func (m *Machine) stopTasks() {
	m.writeTimer.stop()
	m.batteryTimer.stop()
	m.reconnectTimer.stop()
}
