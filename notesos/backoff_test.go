package notesos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectDelaySchedule(t *testing.T) {
	// The Nth retry waits base * 2^(N-1).
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1000 * time.Millisecond},
		{1, 2000 * time.Millisecond},
		{2, 4000 * time.Millisecond},
		{3, 8000 * time.Millisecond},
		{4, 16000 * time.Millisecond},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reconnectDelay(time.Second, tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestReconnectDelayDefaultsAndClamps(t *testing.T) {
	assert.Equal(t, time.Second, reconnectDelay(0, 0))
	assert.Equal(t, 2*time.Second, reconnectDelay(-time.Second, 1))
	assert.Equal(t, 10*time.Millisecond, reconnectDelay(10*time.Millisecond, -3))
	// Oversized attempts must not overflow into a negative delay.
	assert.Greater(t, reconnectDelay(time.Second, 500), time.Duration(0))
}
