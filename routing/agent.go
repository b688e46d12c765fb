package routing

// Sender is the harness-side half of the §6 contract: it enqueues a
// packet on a local port. Sends are non-blocking and carry no delivery
// guarantee — the agent never waits on them.
type Sender interface {
	Send(port Port, packet *Packet)
}

// Agent is the harness-facing contract every routing variant
// implements (spec.md §6). A node instantiates exactly one variant;
// DVAgent and LSAgent do not interoperate. All methods run to
// completion synchronously — there are no suspension points and no
// background goroutines (spec.md §5).
type Agent interface {
	// HandlePacket processes one inbound packet received on port.
	HandlePacket(port Port, packet *Packet)

	// HandleNewLink notifies the agent that a link to endpoint,
	// with the given cost, is now up on port.
	HandleNewLink(port Port, endpoint Address, cost Cost)

	// HandleRemoveLink notifies the agent that the link on port
	// has gone down. A port not currently in the neighbor table
	// is handled per spec.md §7 (silently ignored).
	HandleRemoveLink(port Port)

	// HandleTime delivers the current simulation clock, in
	// milliseconds since start. The agent rebroadcasts its routing
	// state if the heartbeat interval has elapsed.
	HandleTime(timeMs int64)

	// Snapshot returns a human-readable dump of the agent's
	// current routing state and forwarding table, for debugging
	// (spec.md §6, optional).
	Snapshot() string
}
