package simpleble

import "fmt"

// exchangePhase tracks the single write exchange in flight.
type exchangePhase int

const (
	phaseIdle exchangePhase = iota
	phaseAwaitingAck
	phaseAwaitingValue
)

// issueWrite sends the next value of the write cycle to the write
// characteristic. The acknowledgement and the value update that follow are
// timed against the moment of this call.
func (m *Machine) issueWrite() {
	if m.peripheral == nil {
		m.log.WithError(ErrNoPeripheral).Error("cannot write")
		return
	}
	c := m.bindings[RoleWrite]
	if c == nil {
		m.peripheralLog(m.peripheral).WithError(ErrNoWriteCharacteristic).Error("cannot write")
		return
	}

	value := TransmittedValue(m.counter)
	text := fmt.Sprintf("Writing %d", value)
	m.cfg.Status.Publish(Status{Field: StatusWriting, Text: text, Value: value})
	m.cfg.Status.Publish(Status{Field: StatusDidWrite})
	m.peripheralLog(m.peripheral).WithField("value", value).Info(text)

	m.lastWrite = m.cfg.Now()
	m.phase = phaseAwaitingAck
	err := m.transport.WriteValue(m.peripheral, c, EncodeWriteValue(value))
	m.counter = NextCounter(m.counter)
	if err != nil {
		m.phase = phaseIdle
		m.peripheralLog(m.peripheral).WithError(err).Error("write failed")
		m.cfg.Status.Publish(Status{Field: StatusDidWrite, Text: err.Error(), Err: err})
	}
}

// boundWrite reports whether ev refers to the write characteristic bound on
// the current peripheral. Events that arrive after a disconnect or for a
// previous binding fail this check.
func (m *Machine) boundWrite(ev Event) bool {
	c := m.bindings[RoleWrite]
	return c != nil && m.isCurrent(ev.Peripheral) &&
		isCharacteristic(ev.Characteristic, c.ServiceUUID(), c.UUID())
}

func (m *Machine) onWriteAcknowledged(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if !m.boundWrite(ev) || m.phase != phaseAwaitingAck {
		log.WithField("phase", m.phase).Debug("ignoring stale write acknowledgement")
		return
	}
	if ev.Err != nil {
		m.phase = phaseIdle
		log.WithError(ev.Err).Error("write not acknowledged")
		m.cfg.Status.Publish(Status{Field: StatusDidWrite, Text: ev.Err.Error(), Err: ev.Err})
		return
	}

	m.phase = phaseAwaitingValue
	elapsed := m.cfg.Now().Sub(m.lastWrite)
	text := fmt.Sprintf("didWrite, elapsed: %s", elapsed)
	m.cfg.Status.Publish(Status{Field: StatusDidWrite, Text: text, Elapsed: elapsed})
	log.WithField("elapsed", elapsed).Info(text)

	if err := m.transport.ReadValue(m.peripheral, m.bindings[RoleWrite]); err != nil {
		m.phase = phaseIdle
		log.WithError(err).Error("read failed")
	}
}

func (m *Machine) onWriteValueUpdated(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if !m.boundWrite(ev) || m.phase != phaseAwaitingValue {
		log.WithField("phase", m.phase).Debug("ignoring stale value update")
		return
	}
	if ev.Err != nil {
		m.phase = phaseIdle
		log.WithError(ev.Err).Error("value update failed")
		m.cfg.Status.Publish(Status{Field: StatusDidUpdate, Text: ev.Err.Error(), Err: ev.Err})
		return
	}
	value, err := DecodeWriteValue(ev.Value)
	if err != nil {
		log.WithError(err).Error("write characteristic value")
		return
	}

	m.phase = phaseIdle
	elapsed := m.cfg.Now().Sub(m.lastWrite)
	text := fmt.Sprintf("didUpdate: %d, elapsed: %s", value, elapsed)
	m.cfg.Status.Publish(Status{Field: StatusDidUpdate, Text: text, Value: value, Elapsed: elapsed})
	log.WithField("elapsed", elapsed).Info(text)

	m.issueWrite()
}

// onWriteTimer restarts a stalled cycle. An exchange still in flight is left
// alone until it is one interval old.
func (m *Machine) onWriteTimer() {
	if m.cfg.SuppressOverlap && m.phase != phaseIdle && m.cfg.Now().Sub(m.lastWrite) < m.cfg.WriteInterval {
		m.log.Debug("exchange in flight, skipping timer write")
		return
	}
	m.issueWrite()
}

func (p exchangePhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseAwaitingAck:
		return "awaiting-ack"
	case phaseAwaitingValue:
		return "awaiting-value"
	default:
		return "unknown"
	}
}
