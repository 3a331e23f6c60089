package registry

// ServiceInstance is one advertised backend endpoint plus the metadata the
// balancers consume.
type ServiceInstance struct {
	Addr    string // Dialable UDP address, e.g. "127.0.0.1:34567"
	Weight  int    // Relative capacity, consumed by the weighted balancer
	Version string // Deployment version, informational
}

// Registry is the service discovery capability. The server registers itself
// under its advertised address before serving and deregisters on shutdown;
// the client discovers the instance set and hands it to a balancer.
type Registry interface {
	// Register advertises an instance with a TTL in seconds. The entry
	// must disappear on its own once the registrant stops renewing.
	Register(serviceName string, instance ServiceInstance, ttl int64) error

	// Deregister withdraws one instance by address.
	Deregister(serviceName string, addr string) error

	// Discover returns the currently advertised instances of a service.
	Discover(serviceName string) ([]ServiceInstance, error)

	// Watch emits the updated instance list whenever the set changes.
	Watch(serviceName string) <-chan []ServiceInstance
}
