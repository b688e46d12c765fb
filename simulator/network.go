// Package simulator provides a minimal in-memory harness implementing
// the §6 contract from spec.md (send/link-up/link-down/tick) over many
// routing.Agent instances. It stands in for the network simulation
// harness and physical link layer that spec.md places outside the
// routing core's scope (§1), reduced to what is needed to drive and
// demonstrate that core — it deliberately does not attempt wire
// framing, real sockets, or concurrent delivery.
package simulator

import (
	"errors"
	"fmt"
	"sort"

	"bjoernblessin.de/pathrouter/internal/logger"
	"bjoernblessin.de/pathrouter/routing"
)

// Variant selects which routing.Agent implementation a node runs.
type Variant int

const (
	DistanceVector Variant = iota
	LinkState
)

// link describes one endpoint of a connection from the owning node's
// perspective: the local port it was assigned, and the remote node's
// address and port on the other side.
type link struct {
	localPort  routing.Port
	remote     routing.Address
	remotePort routing.Port
}

// node is one simulated router: its agent, and the local-port
// bookkeeping needed to route outbound sends to the right peer.
type node struct {
	addr  routing.Address
	agent routing.Agent
	links map[routing.Port]link
	// Sends this node's agent produces are not held here: the
	// nodeSender passed to its agent appends them to the owning
	// Network's queue until the next drain.
}

// nodeSender is the Sender a single node's agent uses. It enqueues
// onto the owning Network's delivery queue rather than delivering
// synchronously, so a full Tick can flood/broadcast without recursing
// into other nodes' handlers mid-event (spec.md §5: handlers run to
// completion before the next event is observed).
type nodeSender struct {
	net  *Network
	from routing.Address
}

func (s *nodeSender) Send(port routing.Port, packet *routing.Packet) {
	s.net.enqueue(s.from, port, packet)
}

type queuedSend struct {
	from routing.Address
	port routing.Port
	pkt  *routing.Packet
}

// Network is the in-memory harness. It owns every node's state
// exclusively on the node's behalf; nothing here is shared across
// nodes except via explicit Drain/Tick calls, matching spec.md §5's
// "no locks are required" model.
type Network struct {
	nodes    map[routing.Address]*node
	nextPort map[routing.Address]routing.Port
	queue    []queuedSend
	clockMs  int64
}

// NewNetwork constructs an empty simulated network.
func NewNetwork() *Network {
	return &Network{
		nodes:    make(map[routing.Address]*node),
		nextPort: make(map[routing.Address]routing.Port),
	}
}

// AddNode registers a new router at addr, running the given protocol
// variant with the given heartbeat interval in milliseconds.
func (n *Network) AddNode(addr routing.Address, variant Variant, heartbeatMs int64) error {
	if _, exists := n.nodes[addr]; exists {
		return fmt.Errorf("simulator: node %s already exists", addr)
	}

	sender := &nodeSender{net: n, from: addr}

	var agent routing.Agent
	switch variant {
	case DistanceVector:
		agent = routing.NewDVAgent(addr, sender, heartbeatMs)
	case LinkState:
		agent = routing.NewLSAgent(addr, sender, heartbeatMs)
	default:
		return fmt.Errorf("simulator: unknown variant %v", variant)
	}

	n.nodes[addr] = &node{addr: addr, agent: agent, links: make(map[routing.Port]link)}
	return nil
}

func (n *Network) allocPort(addr routing.Address) routing.Port {
	p := n.nextPort[addr]
	n.nextPort[addr] = p + 1
	return p
}

// Link brings up a bidirectional connection between a and b at the
// given cost, assigning each side a fresh local port and notifying
// both agents via HandleNewLink.
func (n *Network) Link(a, b routing.Address, cost routing.Cost) error {
	nodeA, okA := n.nodes[a]
	nodeB, okB := n.nodes[b]
	if !okA || !okB {
		return errors.New("simulator: both endpoints must be registered nodes")
	}

	portA := n.allocPort(a)
	portB := n.allocPort(b)

	nodeA.links[portA] = link{localPort: portA, remote: b, remotePort: portB}
	nodeB.links[portB] = link{localPort: portB, remote: a, remotePort: portA}

	nodeA.agent.HandleNewLink(portA, b, cost)
	nodeB.agent.HandleNewLink(portB, a, cost)

	return nil
}

// Unlink tears down the connection between a and b, notifying both
// agents via HandleRemoveLink. It is a no-op if no link exists.
func (n *Network) Unlink(a, b routing.Address) error {
	nodeA, okA := n.nodes[a]
	nodeB, okB := n.nodes[b]
	if !okA || !okB {
		return errors.New("simulator: both endpoints must be registered nodes")
	}

	var portA, portB routing.Port
	found := false
	for p, l := range nodeA.links {
		if l.remote == b {
			portA = p
			portB = l.remotePort
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	delete(nodeA.links, portA)
	delete(nodeB.links, portB)

	nodeA.agent.HandleRemoveLink(portA)
	nodeB.agent.HandleRemoveLink(portB)

	return nil
}

// enqueue records a packet a node's agent wants to send on one of its
// local ports. Drain delivers it to the peer on the other end.
func (n *Network) enqueue(from routing.Address, port routing.Port, pkt *routing.Packet) {
	n.queue = append(n.queue, queuedSend{from: from, port: port, pkt: pkt})
}

// Drain delivers every currently-queued send to its peer, in FIFO
// order, repeating until no new sends are produced (so that a
// delivery which itself triggers a flood or recompute is fully
// propagated within one Drain call). Across nodes there is no
// ordering guarantee per spec.md §5 — Drain simply processes whatever
// is queued, in the order it was queued.
func (n *Network) Drain() {
	for len(n.queue) > 0 {
		batch := n.queue
		n.queue = nil

		for _, qs := range batch {
			src := n.nodes[qs.from]
			l, exists := src.links[qs.port]
			if !exists {
				continue // link went down between send and delivery
			}
			dst, exists := n.nodes[l.remote]
			if !exists {
				continue
			}
			dst.agent.HandlePacket(l.remotePort, qs.pkt)
		}
	}
}

// Tick advances the simulated clock to timeMs and delivers HandleTime
// to every node, then drains any resulting sends.
func (n *Network) Tick(timeMs int64) {
	n.clockMs = timeMs
	addrs := n.sortedAddrs()
	for _, addr := range addrs {
		n.nodes[addr].agent.HandleTime(timeMs)
	}
	n.Drain()
}

// SendData injects a data (traceroute-style) packet from the harness
// directly into from's own handler, exercising the same forwarding
// path a forwarded data packet would take, then drains the result.
func (n *Network) SendData(from, to routing.Address, content []byte) error {
	src, exists := n.nodes[from]
	if !exists {
		return fmt.Errorf("simulator: unknown node %s", from)
	}
	pkt := &routing.Packet{Kind: routing.DataPacket, SrcAddr: from, DstAddr: to, Content: content}
	// A node delivers its own originated data packets to itself on
	// a synthetic port; HandlePacket looks the destination up in the
	// forwarding table and forwards via the real Sender regardless
	// of which port it arrived on.
	src.agent.HandlePacket(-1, pkt)
	n.Drain()
	return nil
}

// Snapshot returns every node's human-readable routing state, sorted
// by address for deterministic output.
func (n *Network) Snapshot() string {
	out := ""
	for _, addr := range n.sortedAddrs() {
		out += n.nodes[addr].agent.Snapshot() + "\n"
	}
	return out
}

func (n *Network) sortedAddrs() []routing.Address {
	addrs := make([]routing.Address, 0, len(n.nodes))
	for addr := range n.nodes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// NodeCount reports how many routers are registered.
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// HasNode reports whether addr is a registered node.
func (n *Network) HasNode(addr routing.Address) bool {
	_, exists := n.nodes[addr]
	return exists
}

// Logf proxies to the shared logger, so the CLI layer does not need
// its own logging setup.
func Logf(format string, args ...any) {
	logger.Infof(format, args...)
}
