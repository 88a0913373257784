package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps ops with a Lamport counter and the local site id.
type Clock struct {
	site    string
	lamport atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

func (c *Clock) Site() string { return c.site }

// Stamp assigns the next Lamport value and this site to op.
func (c *Clock) Stamp(op Op) Op {
	op.Lamport = c.lamport.Add(1)
	op.Site = c.site
	return op
}

// Observe moves the counter past a remote timestamp.
func (c *Clock) Observe(remote uint64) {
	for {
		cur := c.lamport.Load()
		if remote <= cur || c.lamport.CompareAndSwap(cur, remote) {
			return
		}
	}
}

// Now is the last value handed out or observed.
func (c *Clock) Now() uint64 { return c.lamport.Load() }
