package simpleble

// pollBattery reads the battery level characteristic. The result arrives as
// a value update and is only logged.
func (m *Machine) pollBattery() {
	if m.peripheral == nil {
		m.log.WithError(ErrNoPeripheral).Error("cannot read battery level")
		return
	}
	c := m.bindings[RoleBattery]
	if c == nil {
		m.peripheralLog(m.peripheral).WithError(ErrNoBatteryCharacteristic).Error("cannot read battery level")
		return
	}
	if err := m.transport.ReadValue(m.peripheral, c); err != nil {
		m.peripheralLog(m.peripheral).WithError(err).Error("battery read failed")
	}
}

func (m *Machine) onBatteryValue(ev Event) {
	log := m.peripheralLog(ev.Peripheral)
	if m.bindings[RoleBattery] == nil || !m.isCurrent(ev.Peripheral) {
		log.Debug("ignoring stale battery level")
		return
	}
	if ev.Err != nil {
		log.WithError(ev.Err).Error("battery read failed")
		return
	}
	level, err := DecodeBatteryLevel(ev.Value)
	if err != nil {
		log.WithError(err).Error("battery level value")
		return
	}
	log.WithField("level", level).Info("battery level")
}
