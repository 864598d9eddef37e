package notesos

import "time"

// reconnectDelay returns the delay before the next automatic reconnect.
// attempt is the number of retries already scheduled, so the first retry
// waits the base delay and each subsequent one doubles it.
func reconnectDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if attempt < 0 {
		attempt = 0
	}
	// The retry ceiling keeps attempt small; the clamp only guards callers
	// probing the schedule directly.
	if attempt > 30 {
		attempt = 30
	}
	return base * time.Duration(1<<uint(attempt))
}
