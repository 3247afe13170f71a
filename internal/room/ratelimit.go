package room

import "time"

// slidingLimiter throttles chat messages per connection id over a trailing
// time window. It is owned by the Room and only touched under the Room's
// mutex, so it carries no locking of its own.
type slidingLimiter struct {
	burst   int
	window  time.Duration
	windows map[string][]time.Time
}

func newSlidingLimiter(burst int, window time.Duration) *slidingLimiter {
	if burst <= 0 {
		burst = 5
	}
	if window <= 0 {
		window = 10 * time.Second
	}

	return &slidingLimiter{
		burst:   burst,
		window:  window,
		windows: make(map[string][]time.Time),
	}
}

// allow prunes timestamps that fell out of the window, then either rejects
// (window already at burst; the attempt itself is not recorded) or records
// now and accepts.
func (l *slidingLimiter) allow(id string, now time.Time) bool {
	kept := l.windows[id][:0]
	for _, t := range l.windows[id] {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.burst {
		l.windows[id] = kept
		return false
	}

	l.windows[id] = append(kept, now)
	return true
}

// forget drops a connection's window entirely; a reconnect starts clean even
// for the same username.
func (l *slidingLimiter) forget(id string) {
	delete(l.windows, id)
}
