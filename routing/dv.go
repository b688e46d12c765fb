package routing

import (
	"fmt"
	"sort"
	"strings"

	"bjoernblessin.de/pathrouter/internal/assert"
	"bjoernblessin.de/pathrouter/internal/config"
	"bjoernblessin.de/pathrouter/internal/logger"
)

// DVAgent is the Distance-Vector routing variant (spec.md §4.B, §4.E,
// §4.F's DV branch). It maintains its own distance vector and the
// latest vector heard from each connected neighbor, recomputing both
// the vector and the forwarding table whenever either input changes.
type DVAgent struct {
	self     Address
	sender   Sender
	neighbor *neighborTable

	ownVector       map[Address]Cost
	neighborVectors map[Address]map[Address]Cost // keyed by neighbor endpoint
	forwarding      map[Address]Port

	heartbeatMs    int64
	lastBroadcast  int64
}

// NewDVAgent constructs a Distance-Vector agent for self, sending
// control packets through sender and rebroadcasting every
// heartbeatMs milliseconds of simulated time.
func NewDVAgent(self Address, sender Sender, heartbeatMs int64) *DVAgent {
	if heartbeatMs <= 0 {
		heartbeatMs = config.DefaultHeartbeatInterval.Milliseconds()
	}
	return &DVAgent{
		self:            self,
		sender:          sender,
		neighbor:        newNeighborTable(),
		ownVector:       map[Address]Cost{self: 0},
		neighborVectors: make(map[Address]map[Address]Cost),
		forwarding:      make(map[Address]Port),
		heartbeatMs:     heartbeatMs,
	}
}

// HandleNewLink implements Agent.
func (d *DVAgent) HandleNewLink(port Port, endpoint Address, cost Cost) {
	if !d.neighbor.add(port, endpoint, cost) {
		return
	}

	d.ownVector[endpoint] = cost
	d.forwarding[endpoint] = port

	d.recompute()
	d.rebuildForwarding()
	d.broadcastVector()

	// Send directly to the new neighbor as well, so convergence
	// starts immediately rather than waiting for the next
	// broadcast or heartbeat (spec.md §4.F).
	d.sendVectorTo(port)
}

// HandleRemoveLink implements Agent.
func (d *DVAgent) HandleRemoveLink(port Port) {
	endpoint, existed := d.neighbor.remove(port)
	if !existed {
		return // event on unknown port, spec.md §7 error kind (iv)
	}

	delete(d.neighborVectors, endpoint)
	d.ownVector[endpoint] = Infinity
	for dest, p := range d.forwarding {
		if p == port {
			delete(d.forwarding, dest)
		}
	}

	d.recompute()
	d.rebuildForwarding()
	d.broadcastVector()
}

// HandleTime implements Agent.
func (d *DVAgent) HandleTime(timeMs int64) {
	if timeMs-d.lastBroadcast >= d.heartbeatMs {
		d.lastBroadcast = timeMs
		d.broadcastVector()
	}
}

// HandlePacket implements Agent.
func (d *DVAgent) HandlePacket(port Port, packet *Packet) {
	if packet.IsTraceroute() {
		if out, found := d.forwarding[packet.DstAddr]; found {
			d.sender.Send(out, packet)
		}
		return // forwarding miss, spec.md §7 error kind (iii): drop silently
	}

	received, err := DecodeVector(packet.Content)
	if err != nil {
		logger.Debugf("dropping malformed DV payload from %v: %v", packet.SrcAddr, err)
		return
	}

	neighborAddr := packet.SrcAddr
	if _, isNeighbor := d.neighbor.lookupPort(neighborAddr); !isNeighbor {
		logger.Debugf("dropping DV packet from non-neighbor %v", neighborAddr)
		return // spec.md §7 error kind (ii)
	}

	if existing, ok := d.neighborVectors[neighborAddr]; ok && vectorsEqual(existing, received) {
		return // no change, nothing to do
	}

	d.neighborVectors[neighborAddr] = received

	changed := d.recompute()
	d.rebuildForwarding()
	if changed {
		d.broadcastVector()
	}
}

// recompute runs one round of Bellman-Ford relaxation against the
// current neighbor table and cached neighbor vectors (spec.md §4.B),
// replacing ownVector. It returns whether the vector changed.
func (d *DVAgent) recompute() bool {
	old := d.ownVector

	next := map[Address]Cost{d.self: 0}
	for _, port := range d.neighbor.ports() {
		entry, _ := d.neighbor.entry(port)
		next[entry.endpoint] = entry.cost
	}

	allDestinations := make(map[Address]struct{})
	for dest := range old {
		allDestinations[dest] = struct{}{}
	}
	for _, vector := range d.neighborVectors {
		for dest := range vector {
			allDestinations[dest] = struct{}{}
		}
	}

	for _, port := range d.neighbor.ports() {
		entry, _ := d.neighbor.entry(port)
		vector, known := d.neighborVectors[entry.endpoint]
		if !known {
			continue
		}
		for dest, destCost := range vector {
			if dest == d.self {
				continue
			}
			total := clamp(entry.cost + destCost)
			if current, exists := next[dest]; !exists || total < current {
				next[dest] = total
			}
		}
	}

	// Any destination known previously (or via a neighbor vector)
	// but unreachable now is advertised as explicit Infinity rather
	// than silently dropped, so neighbors relying on this node as a
	// next hop recompute promptly (spec.md §4.B step 3).
	for dest := range allDestinations {
		if dest == d.self {
			continue
		}
		if _, reachable := next[dest]; !reachable {
			next[dest] = Infinity
		}
	}

	d.ownVector = next
	return !vectorsEqual(old, next)
}

// rebuildForwarding derives the forwarding table from the current
// neighbor table and cached neighbor vectors (spec.md §4.B, the
// "forwarding table is then derived" paragraph). Ports are visited in
// ascending order, so a tie is won by the lowest port number.
func (d *DVAgent) rebuildForwarding() {
	next := make(map[Address]Port)
	ports := d.neighbor.ports()
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })

	best := make(map[Address]Cost)

	for _, port := range ports {
		entry, _ := d.neighbor.entry(port)

		// The neighbor itself, at the direct link cost.
		if current, exists := best[entry.endpoint]; !exists || entry.cost < current {
			best[entry.endpoint] = entry.cost
			next[entry.endpoint] = port
		}

		vector, known := d.neighborVectors[entry.endpoint]
		if !known {
			continue
		}
		for dest, destCost := range vector {
			if dest == d.self {
				continue
			}
			total := entry.cost + destCost
			if current, exists := best[dest]; !exists || total < current {
				best[dest] = total
				next[dest] = port
			}
		}
	}

	for dest, cost := range best {
		if cost >= Infinity {
			delete(next, dest)
		}
	}

	d.forwarding = next
}

func (d *DVAgent) broadcastVector() {
	for _, port := range d.neighbor.ports() {
		d.sendVectorTo(port)
	}
}

func (d *DVAgent) sendVectorTo(port Port) {
	entry, exists := d.neighbor.entry(port)
	assert.Assert(exists, "sendVectorTo called with unknown port %v", port)

	packet := &Packet{
		Kind:    RoutingPacket,
		SrcAddr: d.self,
		DstAddr: entry.endpoint,
		Content: EncodeVector(d.ownVector),
	}
	d.sender.Send(port, packet)
}

func vectorsEqual(a, b map[Address]Cost) bool {
	if len(a) != len(b) {
		return false
	}
	for dest, cost := range a {
		if other, exists := b[dest]; !exists || other != cost {
			return false
		}
	}
	return true
}

// Snapshot implements Agent.
func (d *DVAgent) Snapshot() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DVAgent(addr=%s)\n", d.self)
	sb.WriteString("Distance Vector:\n")
	dests := make([]Address, 0, len(d.ownVector))
	for dest := range d.ownVector {
		dests = append(dests, dest)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })
	for _, dest := range dests {
		fmt.Fprintf(&sb, "  %s: %d\n", dest, d.ownVector[dest])
	}
	sb.WriteString("Forwarding Table:\n")
	for dest, port := range d.forwarding {
		fmt.Fprintf(&sb, "  %s -> port %d\n", dest, port)
	}
	return sb.String()
}
