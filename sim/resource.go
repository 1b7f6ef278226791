// Implements the ResourcePool, which models one stage's bank of
// identical machine slots. Parts queue here when every slot is busy.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// ResourcePool is a capacity-limited server group with a FIFO wait
// queue. A grant callback either fires immediately (a slot is free) or
// waits in the queue until a release hands it the freed slot, in strict
// enqueue order — no overtaking, no priorities, no preemption.
//
// The pool is shared mutable state, but it is only touched inside
// scheduler-dispatched callbacks, which never interleave, so no locking
// is required.
type ResourcePool struct {
	stage    trace.Stage
	capacity int
	occupied int
	waiters  []func() // pending grants, strict FIFO
}

// NewResourcePool creates a pool with the given capacity. Capacity is
// validated by Config.Validate; a value below 1 here is a defect.
func NewResourcePool(stage trace.Stage, capacity int) *ResourcePool {
	if capacity < 1 {
		panic(fmt.Errorf("%w: %s pool capacity is %d, must be >= 1", ErrInvalidParameter, stage, capacity))
	}
	return &ResourcePool{stage: stage, capacity: capacity}
}

// Acquire requests one slot. When a slot is free the grant fires before
// Acquire returns; otherwise it is appended to the wait queue and fires
// inside a later Release, in enqueue order.
func (p *ResourcePool) Acquire(grant func()) {
	if grant == nil {
		panic("Acquire: grant must not be nil")
	}
	if p.occupied < p.capacity {
		p.occupied++
		grant()
		return
	}
	p.waiters = append(p.waiters, grant)
	logrus.Debugf("%s pool full (%d/%d), request queued (%d waiting)",
		p.stage, p.occupied, p.capacity, len(p.waiters))
}

// Release frees one slot. If requests are waiting, the head of the
// queue takes the slot within the same logical step, so no simulated
// time elapses between a release and the next grant.
func (p *ResourcePool) Release() {
	if p.occupied == 0 {
		panic(fmt.Sprintf("Release: %s pool has no occupied slots", p.stage))
	}
	p.occupied--
	if len(p.waiters) == 0 {
		return
	}
	next := p.waiters[0]
	p.waiters = p.waiters[1:]
	p.occupied++
	next()
}

// Stage returns the stage this pool serves.
func (p *ResourcePool) Stage() trace.Stage {
	return p.stage
}

// Capacity returns the configured slot count.
func (p *ResourcePool) Capacity() int {
	return p.capacity
}

// Occupied returns the number of slots currently held.
func (p *ResourcePool) Occupied() int {
	return p.occupied
}

// Waiting returns the number of requests queued for a slot.
func (p *ResourcePool) Waiting() int {
	return len(p.waiters)
}
