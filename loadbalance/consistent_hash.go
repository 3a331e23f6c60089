package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"

	"udprpc/registry"
)

// ConsistentHashBalancer maps a stable client key to an instance on a hash
// ring, so the same client lands on the same instance for as long as the
// instance set is unchanged. Each client session opens one channel, so the
// affinity key is fixed at construction rather than supplied per pick.
//
// Virtual nodes: each real instance maps to N points on the ring. Without
// them a handful of instances can cluster and skew the distribution; 100
// virtual nodes per instance gives statistical uniformity.
type ConsistentHashBalancer struct {
	key      string // Stable affinity key, e.g. a client identity
	replicas int    // Virtual nodes per real instance
}

// NewConsistentHashBalancer creates a balancer with 100 virtual nodes per
// instance, keyed by the given affinity key.
func NewConsistentHashBalancer(key string) *ConsistentHashBalancer {
	return &ConsistentHashBalancer{key: key, replicas: 100}
}

// Pick rebuilds the ring from the instance list and binary-searches for the
// first virtual node at or past the key's hash, wrapping to the first node
// when the hash is beyond all of them. The instance list is small enough
// that rebuilding per pick beats caching and invalidating the ring.
func (b *ConsistentHashBalancer) Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}

	ring := make([]uint32, 0, len(instances)*b.replicas)
	nodes := make(map[uint32]*registry.ServiceInstance, len(instances)*b.replicas)
	for i := range instances {
		for r := 0; r < b.replicas; r++ {
			h := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", instances[i].Addr, r)))
			ring = append(ring, h)
			nodes[h] = &instances[i]
		}
	}
	sort.Slice(ring, func(i, j int) bool { return ring[i] < ring[j] })

	hash := crc32.ChecksumIEEE([]byte(b.key))
	idx := sort.Search(len(ring), func(i int) bool { return ring[i] >= hash })
	if idx == len(ring) {
		idx = 0
	}
	return nodes[ring[idx]], nil
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
