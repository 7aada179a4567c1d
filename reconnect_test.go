package simpleble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff(t *testing.T) {
	policy := ExponentialBackoff(time.Second, 10*time.Second)
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 0},
		{2, time.Second},
		{3, 2 * time.Second},
		{4, 4 * time.Second},
		{5, 8 * time.Second},
		{6, 10 * time.Second},
		{100, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, policy(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoffDisabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExponentialBackoff(0, time.Second)(5))
	assert.Equal(t, time.Duration(0), ImmediateReconnect(5))
}
