package routing

import "bjoernblessin.de/pathrouter/internal/logger"

// neighborEntry is one row of the neighbor table (component A):
// the endpoint reachable through a port, and the link's cost.
type neighborEntry struct {
	endpoint Address
	cost     Cost
}

// neighborTable maps Port -> (endpoint Address, link Cost). At most
// one entry exists per port, and the same endpoint may appear under at
// most one port at a time (spec.md §3: parallel links are not
// modeled).
type neighborTable struct {
	byPort     map[Port]neighborEntry
	byEndpoint map[Address]Port
}

func newNeighborTable() *neighborTable {
	return &neighborTable{
		byPort:     make(map[Port]neighborEntry),
		byEndpoint: make(map[Address]Port),
	}
}

// add installs or replaces the entry on port. If endpoint is already
// reachable through a different port, the second link is rejected
// (spec.md §9 open question on parallel links: this module picks
// "reject the second link_up" as its deterministic resolution) and add
// reports false.
func (nt *neighborTable) add(port Port, endpoint Address, cost Cost) bool {
	if existingPort, exists := nt.byEndpoint[endpoint]; exists && existingPort != port {
		logger.Warnf("rejecting parallel link to %v on port %v (already reachable via port %v)", endpoint, port, existingPort)
		return false
	}

	if old, exists := nt.byPort[port]; exists && old.endpoint != endpoint {
		delete(nt.byEndpoint, old.endpoint)
	}

	nt.byPort[port] = neighborEntry{endpoint: endpoint, cost: cost}
	nt.byEndpoint[endpoint] = port
	return true
}

// remove deletes the entry for port, if present.
func (nt *neighborTable) remove(port Port) (endpoint Address, existed bool) {
	entry, exists := nt.byPort[port]
	if !exists {
		return "", false
	}
	delete(nt.byPort, port)
	delete(nt.byEndpoint, entry.endpoint)
	return entry.endpoint, true
}

// lookupPort returns the port whose endpoint equals addr, if any.
func (nt *neighborTable) lookupPort(addr Address) (Port, bool) {
	port, exists := nt.byEndpoint[addr]
	return port, exists
}

// has reports whether port currently refers to a live link.
func (nt *neighborTable) has(port Port) bool {
	_, exists := nt.byPort[port]
	return exists
}

// entry returns the full entry for port.
func (nt *neighborTable) entry(port Port) (neighborEntry, bool) {
	e, exists := nt.byPort[port]
	return e, exists
}

// ports returns all currently-up ports, in map iteration order. The
// order is not meaningful across calls but is stable within one call,
// which is enough for the "first match wins" tie-break in spec.md
// §4.B.
func (nt *neighborTable) ports() []Port {
	ports := make([]Port, 0, len(nt.byPort))
	for p := range nt.byPort {
		ports = append(ports, p)
	}
	return ports
}

func (nt *neighborTable) len() int {
	return len(nt.byPort)
}
