package simpleble

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls the Machine. The zero value of a duration disables the
// corresponding timer; DefaultConfig returns the values the probe normally
// runs with.
type Config struct {
	// WriteInterval is the period of the backup write timer. The exchange
	// normally drives itself from value updates; the timer only restarts a
	// stalled cycle.
	WriteInterval time.Duration

	// BatteryPoll enables reading the battery level every BatteryInterval.
	BatteryPoll     bool
	BatteryInterval time.Duration

	// StopScanOnMatch stops scanning once a peripheral has been found. When
	// false every discovery event replaces the peripheral and connects again.
	StopScanOnMatch bool

	// SuppressOverlap skips a timer write while an exchange issued less than
	// WriteInterval ago is still waiting for its value update.
	SuppressOverlap bool

	// RetryConnectFailures sends failed connection attempts through the
	// reconnect policy. When false a failed connect is only logged.
	RetryConnectFailures bool

	Reconnect ReconnectPolicy
	Scheduler Scheduler
	Now       func() time.Time
	Logger    logrus.FieldLogger
	Status    StatusSink
}

// DefaultConfig returns the configuration used by the latency probe.
func DefaultConfig() Config {
	return Config{
		WriteInterval:   10 * time.Second,
		BatteryInterval: 1 * time.Second,
		StopScanOnMatch: true,
		SuppressOverlap: true,
		Reconnect:       ImmediateReconnect,
		Scheduler:       SystemScheduler(),
		Now:             time.Now,
		Logger:          logrus.StandardLogger(),
		Status:          discardStatus{},
	}
}

func (c *Config) setDefaults() {
	if c.Reconnect == nil {
		c.Reconnect = ImmediateReconnect
	}
	if c.Scheduler == nil {
		c.Scheduler = SystemScheduler()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.Status == nil {
		c.Status = discardStatus{}
	}
}
