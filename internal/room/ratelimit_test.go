package room

import (
	"testing"
	"time"
)

func TestSlidingLimiterBurst(t *testing.T) {
	l := newSlidingLimiter(5, 10*time.Second)
	now := time.Unix(0, 0)

	for i := 0; i < 5; i++ {
		if !l.allow("c1", now) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.allow("c1", now) {
		t.Fatal("sixth attempt within the window should be rejected")
	}
}

func TestSlidingLimiterRejectionNotRecorded(t *testing.T) {
	l := newSlidingLimiter(5, 10*time.Second)
	start := time.Unix(0, 0)

	for i := 0; i < 5; i++ {
		l.allow("c1", start)
	}
	// rejected attempts must not extend the window
	for i := 0; i < 20; i++ {
		l.allow("c1", start.Add(5*time.Second))
	}

	if !l.allow("c1", start.Add(10*time.Second)) {
		t.Fatal("expected the original burst to have expired")
	}
}

func TestSlidingLimiterPerConnection(t *testing.T) {
	l := newSlidingLimiter(1, 10*time.Second)
	now := time.Unix(0, 0)

	if !l.allow("c1", now) {
		t.Fatal("first connection should pass")
	}
	if !l.allow("c2", now) {
		t.Fatal("windows must be independent per connection")
	}
}

func TestSlidingLimiterForget(t *testing.T) {
	l := newSlidingLimiter(1, 10*time.Second)
	now := time.Unix(0, 0)

	l.allow("c1", now)
	if l.allow("c1", now) {
		t.Fatal("second attempt should be rejected")
	}

	l.forget("c1")
	if !l.allow("c1", now) {
		t.Fatal("a forgotten connection starts with an empty window")
	}
}
