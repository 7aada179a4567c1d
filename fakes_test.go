package simpleble

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakePeripheral struct{ id string }

func (p *fakePeripheral) ID() string { return p.id }

type fakeService struct{ uuid UUID }

func (s *fakeService) UUID() UUID { return s.uuid }

type fakeCharacteristic struct{ uuid, service UUID }

func (c *fakeCharacteristic) UUID() UUID        { return c.uuid }
func (c *fakeCharacteristic) ServiceUUID() UUID { return c.service }

var (
	writeService   = &fakeService{WriteServiceUUID}
	batteryService = &fakeService{BatteryServiceUUID}
	writeChar      = &fakeCharacteristic{WriteCharacteristicUUID, WriteServiceUUID}
	batteryChar    = &fakeCharacteristic{BatteryLevelCharacteristicUUID, BatteryServiceUUID}
)

// call records one Transport method invocation.
type call struct {
	op             string
	filter         []UUID
	peripheral     Peripheral
	service        Service
	characteristic Characteristic
	value          []byte
}

type fakeTransport struct {
	state    AdapterState
	handler  func(Event)
	calls    []call
	writeErr error
}

func (f *fakeTransport) SetEventHandler(h func(Event)) { f.handler = h }
func (f *fakeTransport) State() AdapterState           { return f.state }

func (f *fakeTransport) Scan(serviceUUIDs []UUID) error {
	f.calls = append(f.calls, call{op: "scan", filter: serviceUUIDs})
	return nil
}

func (f *fakeTransport) StopScan() error {
	f.calls = append(f.calls, call{op: "stop-scan"})
	return nil
}

func (f *fakeTransport) Connect(p Peripheral) error {
	f.calls = append(f.calls, call{op: "connect", peripheral: p})
	return nil
}

func (f *fakeTransport) DiscoverServices(p Peripheral) error {
	f.calls = append(f.calls, call{op: "discover-services", peripheral: p})
	return nil
}

func (f *fakeTransport) DiscoverCharacteristics(p Peripheral, s Service) error {
	f.calls = append(f.calls, call{op: "discover-characteristics", peripheral: p, service: s})
	return nil
}

func (f *fakeTransport) WriteValue(p Peripheral, c Characteristic, value []byte) error {
	f.calls = append(f.calls, call{op: "write", peripheral: p, characteristic: c, value: value})
	return f.writeErr
}

func (f *fakeTransport) ReadValue(p Peripheral, c Characteristic) error {
	f.calls = append(f.calls, call{op: "read", peripheral: p, characteristic: c})
	return nil
}

func (f *fakeTransport) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeTransport) last(op string) call {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i]
		}
	}
	return call{}
}

func (f *fakeTransport) reset() { f.calls = nil }

// fakeTask only fires when the test says so.
type fakeTask struct {
	every   time.Duration
	after   time.Duration
	fn      func()
	oneShot bool
	fired   bool
	stopped bool
}

func (t *fakeTask) Stop()        { t.stopped = true }
func (t *fakeTask) Active() bool { return !t.stopped && !(t.oneShot && t.fired) }

func (t *fakeTask) fire() {
	t.fired = true
	t.fn()
}

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) Task {
	t := &fakeTask{every: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Task {
	t := &fakeTask{after: d, fn: fn, oneShot: true}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *fakeScheduler) active() []*fakeTask {
	var out []*fakeTask
	for _, t := range s.tasks {
		if t.Active() {
			out = append(out, t)
		}
	}
	return out
}

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	t         *testing.T
	m         *Machine
	transport *fakeTransport
	sched     *fakeScheduler
	clock     *manualClock
	statuses  []Status
	hook      *test.Hook
}

func newHarness(t *testing.T, configure ...func(*Config)) *harness {
	logger, hook := test.NewNullLogger()
	logger.Level = logrus.DebugLevel

	h := &harness{
		t:         t,
		transport: &fakeTransport{state: AdapterStatePoweredOn},
		sched:     &fakeScheduler{},
		clock:     &manualClock{now: time.Date(2020, 3, 5, 12, 0, 0, 0, time.UTC)},
		hook:      hook,
	}
	cfg := DefaultConfig()
	cfg.Scheduler = h.sched
	cfg.Now = h.clock.Now
	cfg.Logger = logger
	cfg.Status = StatusFunc(func(s Status) { h.statuses = append(h.statuses, s) })
	for _, fn := range configure {
		fn(&cfg)
	}
	h.m = NewMachine(h.transport, cfg)
	return h
}

// drain handles every event the machine has posted to itself.
func (h *harness) drain() {
	for {
		select {
		case ev := <-h.m.events:
			h.m.Handle(ev)
		default:
			return
		}
	}
}

// bind walks the machine from discovery to a bound write characteristic.
func (h *harness) bind(p Peripheral) {
	h.m.Handle(Event{Kind: EventPeripheralDiscovered, Peripheral: p})
	h.m.Handle(Event{Kind: EventPeripheralConnected, Peripheral: p})
	h.m.Handle(Event{Kind: EventServicesDiscovered, Peripheral: p, Services: []Service{writeService, batteryService}})
	h.m.Handle(Event{
		Kind:            EventCharacteristicsDiscovered,
		Peripheral:      p,
		Service:         batteryService,
		Characteristics: []Characteristic{batteryChar},
	})
	h.m.Handle(Event{
		Kind:            EventCharacteristicsDiscovered,
		Peripheral:      p,
		Service:         writeService,
		Characteristics: []Characteristic{writeChar},
	})
}

func (h *harness) lastStatus(field StatusField) Status {
	for i := len(h.statuses) - 1; i >= 0; i-- {
		if h.statuses[i].Field == field {
			return h.statuses[i]
		}
	}
	h.t.Fatalf("no %s status published", field)
	return Status{}
}

func (h *harness) errorLogged(err error) bool {
	for _, e := range h.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Data[logrus.ErrorKey] == err {
			return true
		}
	}
	return false
}
