package assistant

import (
	"sync"
	"testing"
	"time"
)

func TestPresence_DecaysToResting(t *testing.T) {
	var mu sync.Mutex
	var seen []PresenceState
	p := NewPresence(PresenceDelays{Processing: 10 * time.Millisecond, Success: 10 * time.Millisecond}, func(s PresenceState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	p.Set(Success)
	if p.State() != Success {
		t.Fatalf("Expected success, got %s", p.State())
	}

	waitFor(t, func() bool { return p.State() == Resting })

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != Success || seen[1] != Resting {
		t.Errorf("Expected success then resting, got %v", seen)
	}
}

func TestPresence_AttentiveStays(t *testing.T) {
	p := NewPresence(PresenceDelays{Processing: time.Millisecond, Success: time.Millisecond}, nil)

	p.Set(Attentive)
	time.Sleep(20 * time.Millisecond)
	if p.State() != Attentive {
		t.Errorf("Expected attentive to persist, got %s", p.State())
	}
}

func TestPresence_NewStateCancelsDecay(t *testing.T) {
	p := NewPresence(PresenceDelays{Processing: 20 * time.Millisecond}, nil)

	p.Set(Processing)
	p.Set(Attentive)
	time.Sleep(40 * time.Millisecond)
	if p.State() != Attentive {
		t.Errorf("Expected stale decay to be ignored, got %s", p.State())
	}
}

func TestPresence_HoldUsesGivenDelay(t *testing.T) {
	p := NewPresence(PresenceDelays{Success: time.Millisecond}, nil)

	p.Hold(Success, 60*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if p.State() != Success {
		t.Fatalf("Expected success to be held, got %s", p.State())
	}
	waitFor(t, func() bool { return p.State() == Resting })
}

func TestPresence_RestAfter(t *testing.T) {
	var mu sync.Mutex
	var seen []PresenceState
	p := NewPresence(PresenceDelays{}, func(s PresenceState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	p.Set(Processing)
	p.RestAfter(30 * time.Millisecond)
	if p.State() != Processing {
		t.Fatalf("Expected state to be kept until the delay, got %s", p.State())
	}
	waitFor(t, func() bool { return p.State() == Resting })

	p.Set(Attentive)
	p.RestAfter(0)
	if p.State() != Resting {
		t.Errorf("Expected zero delay to rest right away, got %s", p.State())
	}

	mu.Lock()
	defer mu.Unlock()
	expected := []PresenceState{Processing, Resting, Attentive, Resting}
	if len(seen) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, seen)
			break
		}
	}
}
