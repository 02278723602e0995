package assistant

import (
	"sync"
	"time"
)

// PresenceState is the avatar shown next to the assistant. It has no effect on requests.
type PresenceState string

const (
	Resting    PresenceState = "resting"
	Attentive  PresenceState = "attentive"
	Processing PresenceState = "processing"
	Success    PresenceState = "success"
)

// PresenceDelays is how long a transient state is shown before returning to Resting
type PresenceDelays struct {
	Processing time.Duration
	Success    time.Duration
	// Playful is how long the avatar stays up after a meow or a wake up
	Playful time.Duration
	// Settle is the pause between showing an answer and resting
	Settle time.Duration
}

func DefaultPresenceDelays() PresenceDelays {
	return PresenceDelays{
		Processing: 1 * time.Second,
		Success:    2 * time.Second,
		Playful:    3 * time.Second,
		Settle:     1 * time.Second,
	}
}

// Presence tracks the current state and reports every change to the host
type Presence struct {
	mu      sync.Mutex
	state   PresenceState
	delays  PresenceDelays
	timer   *time.Timer
	gen     uint64
	observe func(PresenceState)
}

func NewPresence(delays PresenceDelays, observe func(PresenceState)) *Presence {
	if observe == nil {
		observe = func(PresenceState) {}
	}
	return &Presence{
		state:   Resting,
		delays:  delays,
		observe: observe,
	}
}

// State returns the current state
func (p *Presence) State() PresenceState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Delays returns the configured durations
func (p *Presence) Delays() PresenceDelays {
	return p.delays
}

// Set switches state; Processing and Success decay back to Resting.
func (p *Presence) Set(state PresenceState) {
	var delay time.Duration
	switch state {
	case Processing:
		delay = p.delays.Processing
	case Success:
		delay = p.delays.Success
	}
	p.Hold(state, delay)
}

// Hold switches to state and returns to Resting after d. A zero d keeps the state.
func (p *Presence) Hold(state PresenceState, d time.Duration) {
	p.mu.Lock()
	p.state = state
	p.schedule(d)
	p.mu.Unlock()

	p.observe(state)
}

// RestAfter keeps the current state for d, then rests. A zero d rests right away.
func (p *Presence) RestAfter(d time.Duration) {
	if d <= 0 {
		p.Set(Resting)
		return
	}
	p.mu.Lock()
	p.schedule(d)
	p.mu.Unlock()
}

// schedule replaces the pending decay; p.mu must be held
func (p *Presence) schedule(d time.Duration) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	gen := p.gen
	if d > 0 {
		p.timer = time.AfterFunc(d, func() { p.decay(gen) })
	}
}

func (p *Presence) decay(gen uint64) {
	p.mu.Lock()
	// a newer Set replaced this timer
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.state = Resting
	p.mu.Unlock()

	p.observe(Resting)
}
