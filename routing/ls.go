package routing

import (
	"fmt"
	"sort"
	"strings"

	"bjoernblessin.de/pathrouter/internal/config"
	"bjoernblessin.de/pathrouter/internal/logger"
)

// lsaEntry is one row of the LSDB (component C): the sequence number
// the originator last advertised with, and its neighbor set at that
// time.
type lsaEntry struct {
	sequence  uint32
	neighbors map[Address]Cost
}

// LSAgent is the Link-State routing variant (spec.md §4.C, §4.D,
// §4.E, §4.F's LS branch). It floods sequence-numbered link-state
// advertisements and derives the forwarding table by running Dijkstra
// over the accumulated LSDB.
type LSAgent struct {
	self     Address
	sender   Sender
	neighbor *neighborTable

	ownSequence uint32
	lsdb        map[Address]lsaEntry
	seenFloods  map[Address]uint32 // highest sequence re-flooded per originator
	forwarding  map[Address]Port

	heartbeatMs   int64
	lastBroadcast int64
}

// NewLSAgent constructs a Link-State agent for self.
func NewLSAgent(self Address, sender Sender, heartbeatMs int64) *LSAgent {
	if heartbeatMs <= 0 {
		heartbeatMs = config.DefaultHeartbeatInterval.Milliseconds()
	}
	agent := &LSAgent{
		self:        self,
		sender:      sender,
		neighbor:    newNeighborTable(),
		lsdb:        make(map[Address]lsaEntry),
		seenFloods:  make(map[Address]uint32),
		forwarding:  make(map[Address]Port),
		heartbeatMs: heartbeatMs,
	}
	agent.lsdb[self] = lsaEntry{sequence: 0, neighbors: map[Address]Cost{}}
	return agent
}

// HandleNewLink implements Agent.
func (l *LSAgent) HandleNewLink(port Port, endpoint Address, cost Cost) {
	if !l.neighbor.add(port, endpoint, cost) {
		return
	}
	l.bumpOwnLSA()
	l.rebuildForwarding()
	l.floodOwnLSA()
}

// HandleRemoveLink implements Agent.
func (l *LSAgent) HandleRemoveLink(port Port) {
	_, existed := l.neighbor.remove(port)
	if !existed {
		return
	}
	l.bumpOwnLSA()
	l.rebuildForwarding()
	l.floodOwnLSA()
}

// HandleTime implements Agent.
func (l *LSAgent) HandleTime(timeMs int64) {
	if timeMs-l.lastBroadcast >= l.heartbeatMs {
		l.lastBroadcast = timeMs
		l.floodOwnLSA()
	}
}

// HandlePacket implements Agent.
func (l *LSAgent) HandlePacket(port Port, packet *Packet) {
	if packet.IsTraceroute() {
		if out, found := l.forwarding[packet.DstAddr]; found {
			l.sender.Send(out, packet)
		}
		return
	}

	lsa, err := DecodeLSA(packet.Content)
	if err != nil {
		logger.Debugf("dropping malformed LSA payload from %v: %v", packet.SrcAddr, err)
		return
	}

	existing, known := l.lsdb[lsa.originator]
	if known && lsa.sequence <= existing.sequence {
		return // equal or stale sequence: ignored, not re-flooded (spec.md §4.C)
	}

	l.lsdb[lsa.originator] = lsaEntry{sequence: lsa.sequence, neighbors: lsa.neighbors}
	l.rebuildForwarding()
	l.flood(port, lsa.originator, lsa.sequence, packet)
}

// bumpOwnLSA increments own_sequence and rebuilds the local LSDB entry
// from the current neighbor table (spec.md §4.F's LS link_up/down
// branch).
func (l *LSAgent) bumpOwnLSA() {
	l.ownSequence++
	neighbors := make(map[Address]Cost, l.neighbor.len())
	for _, port := range l.neighbor.ports() {
		entry, _ := l.neighbor.entry(port)
		neighbors[entry.endpoint] = entry.cost
	}
	l.lsdb[l.self] = lsaEntry{sequence: l.ownSequence, neighbors: neighbors}
}

// rebuildForwarding constructs the directed graph implied by the
// LSDB, runs Dijkstra from self, and converts the resulting
// shortest-path tree into a forwarding table (spec.md §4.C,§4.E).
func (l *LSAgent) rebuildForwarding() {
	graph := make(map[Address]map[Address]Cost, len(l.lsdb))
	for originator, entry := range l.lsdb {
		if _, ok := graph[originator]; !ok {
			graph[originator] = make(map[Address]Cost)
		}
		for neighbor, cost := range entry.neighbors {
			graph[originator][neighbor] = cost
			if _, ok := graph[neighbor]; !ok {
				graph[neighbor] = make(map[Address]Cost)
			}
		}
	}

	_, prev := shortestPaths(graph, l.self)

	next := make(map[Address]Port)
	for dest := range graph {
		if dest == l.self {
			continue
		}
		hop, reachable := firstHop(prev, l.self, dest)
		if !reachable {
			continue
		}
		port, isNeighbor := l.neighbor.lookupPort(hop)
		if !isNeighbor {
			// The LSDB is momentarily ahead of or behind the
			// neighbor table; omit rather than guess (spec.md
			// §4.C).
			continue
		}
		next[dest] = port
	}

	l.forwarding = next
}

// floodOwnLSA rebroadcasts this node's own LSA to every neighbor
// (spec.md §4.F heartbeat / link event branch).
func (l *LSAgent) floodOwnLSA() {
	entry := l.lsdb[l.self]
	payload := EncodeLSA(l.self, entry.sequence, entry.neighbors)
	for _, port := range l.neighbor.ports() {
		neighbor, _ := l.neighbor.entry(port)
		packet := &Packet{
			Kind:    RoutingPacket,
			SrcAddr: l.self,
			DstAddr: neighbor.endpoint,
			Content: payload,
		}
		l.sender.Send(port, packet)
	}
}

// flood forwards a just-accepted LSA (carried verbatim in packet) to
// every neighbor except the one it arrived from (component D). The
// (originator, sequence) pair is recorded so a later duplicate arrival
// via another path is not re-flooded (spec.md §9's bounded
// resolution: only the highest sequence per originator is kept).
func (l *LSAgent) flood(arrivalPort Port, originator Address, sequence uint32, packet *Packet) {
	if last, seen := l.seenFloods[originator]; seen && last >= sequence {
		return
	}
	l.seenFloods[originator] = sequence

	for _, port := range l.neighbor.ports() {
		if port == arrivalPort {
			continue
		}
		l.sender.Send(port, packet)
	}
}

// KnownOriginators returns every address this agent currently holds
// an LSA for. A harness can use this to build a catch-up/resync
// exchange on top of the core without the core needing to know about
// it (see SPEC_FULL.md's SUPPLEMENTED FEATURES section).
func (l *LSAgent) KnownOriginators() []Address {
	originators := make([]Address, 0, len(l.lsdb))
	for addr := range l.lsdb {
		originators = append(originators, addr)
	}
	return originators
}

// Snapshot implements Agent.
func (l *LSAgent) Snapshot() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LSAgent(addr=%s, seq=%d)\n", l.self, l.ownSequence)
	sb.WriteString("Link State:\n")
	local := l.lsdb[l.self]
	neighbors := make([]Address, 0, len(local.neighbors))
	for addr := range local.neighbors {
		neighbors = append(neighbors, addr)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	for _, addr := range neighbors {
		fmt.Fprintf(&sb, "  %s: %d\n", addr, local.neighbors[addr])
	}
	sb.WriteString("Forwarding Table:\n")
	dests := make([]Address, 0, len(l.forwarding))
	for dest := range l.forwarding {
		dests = append(dests, dest)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })
	for _, dest := range dests {
		fmt.Fprintf(&sb, "  %s -> port %d\n", dest, l.forwarding[dest])
	}
	return sb.String()
}
