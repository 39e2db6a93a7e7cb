// Tracks warm/cold container state per function and produces the startup
// delay charged to each invocation.

package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// ContainerPool models per-function execution environments. A function's
// first invocation provisions a container (cold start); invocations within
// ReuseTTL of the previous one reuse it for free; after the TTL the
// container is treated as expired and the next invocation pays the full
// cold-start delay again.
//
// Records are never deleted, only refreshed. The map is keyed by function
// name, which is externally bounded, so unbounded growth is acceptable.
//
// Safe for concurrent use: a single mutex serializes the read-modify-write
// of last-active times. Contention is low because the engine's clock
// advance is sequential.
type ContainerPool struct {
	mu         sync.Mutex
	lastActive map[string]float64 // function name -> last invocation time

	coldStart float64 // startup delay in seconds
	reuseTTL  float64 // warm window in seconds
	reuse     bool    // when false, every invocation is a cold start
}

// NewContainerPool creates a pool with the given cold-start delay and warm
// reuse window, both in seconds.
func NewContainerPool(coldStartSeconds, reuseTTLSeconds float64, reuseEnabled bool) *ContainerPool {
	return &ContainerPool{
		lastActive: make(map[string]float64),
		coldStart:  coldStartSeconds,
		reuseTTL:   reuseTTLSeconds,
		reuse:      reuseEnabled,
	}
}

// DelayFor returns the startup delay for invoking functionName at atTime
// and refreshes the function's last-active time. The returned delay is the
// only externally visible difference between the cold, warm, and expired
// states.
func (p *ContainerPool) DelayFor(functionName string, atTime float64) float64 {
	if !p.reuse {
		return p.coldStart
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	last, ok := p.lastActive[functionName]
	p.lastActive[functionName] = atTime

	if !ok {
		logrus.Debugf("container %s: cold start at %.3f", functionName, atTime)
		return p.coldStart
	}
	if atTime-last > p.reuseTTL {
		logrus.Debugf("container %s: expired (idle %.3fs > ttl %.3fs)", functionName, atTime-last, p.reuseTTL)
		return p.coldStart
	}
	return 0
}

// Size returns the number of tracked functions.
func (p *ContainerPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lastActive)
}
