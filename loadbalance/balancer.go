// Package loadbalance provides strategies for picking one backend instance
// out of the set a registry returns.
//
// Three strategies are implemented:
//   - RoundRobin:      Stateless services, equal-capacity instances
//   - WeightedRandom:  Heterogeneous instances (different CPU/memory)
//   - ConsistentHash:  Per-client instance affinity via a stable client key
package loadbalance

import (
	"fmt"

	"udprpc/registry"
)

// Balancer is the interface for load balancing strategies.
// The client calls Pick() before opening its channel to select a target.
type Balancer interface {
	// Pick selects one instance from the available list.
	// Must be goroutine-safe.
	Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

// New builds a balancer by config name. key is the affinity key used by the
// consistent-hash strategy and ignored by the others.
func New(name, key string) (Balancer, error) {
	switch name {
	case "", "roundrobin":
		return &RoundRobinBalancer{}, nil
	case "weightedrandom":
		return &WeightedRandomBalancer{}, nil
	case "consistenthash":
		return NewConsistentHashBalancer(key), nil
	}
	return nil, fmt.Errorf("loadbalance: unknown balancer %q", name)
}
