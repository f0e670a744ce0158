package irrigation

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

var ErrUnknownPump = errors.New("unknown pump")

// PumpIDs are the controllable pumps, in display order.
var PumpIDs = []string{"pump1", "pump2", "pump3"}

// PumpState is one pump as seen by its owner.
type PumpState struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Running bool   `json:"running"`
	Status  string `json:"status"`
}

func newPumpState(id string, running bool) PumpState {
	status := "stopped"
	if running {
		status = "running"
	}
	return PumpState{
		ID:      id,
		Label:   "Pump " + strings.TrimPrefix(id, "pump"),
		Running: running,
		Status:  status,
	}
}

// PumpIdleTTL is how long an owner's switches survive without a toggle.
const PumpIdleTTL = 24 * time.Hour

// PumpBoard tracks manual pump switches per owner. Every pump starts stopped.
// Owners with every pump stopped are not stored, and owners idle for longer
// than PumpIdleTTL are forgotten.
type PumpBoard struct {
	mu        sync.Mutex
	owners    map[string]*pumpOwner
	now       func() time.Time
	lastSweep time.Time
}

type pumpOwner struct {
	running map[string]bool
	touched time.Time
}

func NewPumpBoard() *PumpBoard {
	return &PumpBoard{owners: make(map[string]*pumpOwner), now: time.Now}
}

// States returns the owner's pumps in display order.
func (b *PumpBoard) States(owner string) []PumpState {
	b.mu.Lock()
	defer b.mu.Unlock()
	var running map[string]bool
	if o, ok := b.owners[owner]; ok && b.now().Sub(o.touched) < PumpIdleTTL {
		running = o.running
	}
	out := make([]PumpState, 0, len(PumpIDs))
	for _, id := range PumpIDs {
		out = append(out, newPumpState(id, running[id]))
	}
	return out
}

// Toggle flips one pump for owner and returns its new state.
func (b *PumpBoard) Toggle(owner, pump string) (PumpState, error) {
	if !slices.Contains(PumpIDs, pump) {
		return PumpState{}, ErrUnknownPump
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.sweep(now)

	o, ok := b.owners[owner]
	if !ok || now.Sub(o.touched) >= PumpIdleTTL {
		o = &pumpOwner{running: make(map[string]bool, len(PumpIDs))}
		b.owners[owner] = o
	}
	o.touched = now
	if o.running[pump] {
		delete(o.running, pump)
	} else {
		o.running[pump] = true
	}
	if len(o.running) == 0 {
		delete(b.owners, owner)
	}
	return newPumpState(pump, o.running[pump]), nil
}

// Owners reports how many owners have at least one running pump.
func (b *PumpBoard) Owners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.owners)
}

func (b *PumpBoard) sweep(now time.Time) {
	if now.Sub(b.lastSweep) < time.Minute {
		return
	}
	b.lastSweep = now
	for owner, o := range b.owners {
		if now.Sub(o.touched) >= PumpIdleTTL {
			delete(b.owners, owner)
		}
	}
}
