//go:build linux

package simpleble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbortScanAllowsRescan(t *testing.T) {
	a := &Adapter{}
	cancelled := 0
	a.cancelScan = func() { cancelled++ }

	a.abortScan()
	assert.Equal(t, 1, cancelled)
	assert.Nil(t, a.cancelScan)

	// Nothing left to stop, and aborting again is harmless.
	assert.Equal(t, ErrNotScanning, a.StopScan())
	a.abortScan()
	assert.Equal(t, 1, cancelled)
}
