package routing

import "testing"

func checkLSInvariants(t *testing.T, l *LSAgent) {
	t.Helper()
	if l.lsdb[l.self].sequence != l.ownSequence {
		t.Fatalf("lsdb[self].sequence (%v) must equal own_sequence (%v)", l.lsdb[l.self].sequence, l.ownSequence)
	}
	for dest, port := range l.forwarding {
		if !l.neighbor.has(port) {
			t.Fatalf("forwarding[%v]=port %v is not in the neighbor table", dest, port)
		}
	}
}

func lsaPacketFrom(originator Address, sequence uint32, neighbors map[Address]Cost) *Packet {
	return &Packet{
		Kind:    RoutingPacket,
		SrcAddr: originator,
		Content: EncodeLSA(originator, sequence, neighbors),
	}
}

func TestLSLinkUpBumpsSequenceAndFloods(t *testing.T) {
	sender := &recordingSender{}
	l := NewLSAgent("A", sender, 1000)

	l.HandleNewLink(1, "B", 1)

	if l.ownSequence != 1 {
		t.Fatalf("got own_sequence=%v, want 1 after one topology event", l.ownSequence)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one flood to the sole neighbor, got %d", len(sender.sent))
	}
	checkLSInvariants(t, l)
}

func TestLSMonotonicSequenceAcrossEvents(t *testing.T) {
	// Testable property (spec.md §8): own_sequence equals the count
	// of link_up/link_down events.
	sender := &recordingSender{}
	l := NewLSAgent("A", sender, 1000)

	l.HandleNewLink(1, "B", 1)
	l.HandleNewLink(2, "C", 5)
	l.HandleRemoveLink(1)

	if l.ownSequence != 3 {
		t.Fatalf("got own_sequence=%v, want 3", l.ownSequence)
	}
	checkLSInvariants(t, l)
}

func TestLSTriangleConverges(t *testing.T) {
	// Scenario 1: A-B cost 1, B-C cost 1, A-C cost 5.
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)

	a.HandleNewLink(1, "B", 1)
	a.HandleNewLink(2, "C", 5)

	// A learns B's and C's LSAs.
	a.HandlePacket(1, lsaPacketFrom("B", 1, map[Address]Cost{"A": 1, "C": 1}))
	a.HandlePacket(2, lsaPacketFrom("C", 1, map[Address]Cost{"A": 5, "B": 1}))

	if a.forwarding["C"] != 1 {
		t.Fatalf("got forwarding[C]=%v, want port 1 (via B, cost 2 < 5)", a.forwarding["C"])
	}
	checkLSInvariants(t, a)
}

func TestLSLinkFailureReroute(t *testing.T) {
	// Scenario 2: remove A-B; A should fall back to the direct A-C link.
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)

	a.HandleNewLink(1, "B", 1)
	a.HandleNewLink(2, "C", 5)
	a.HandlePacket(1, lsaPacketFrom("B", 1, map[Address]Cost{"A": 1, "C": 1}))
	a.HandlePacket(2, lsaPacketFrom("C", 1, map[Address]Cost{"A": 5, "B": 1}))

	if a.forwarding["C"] != 1 {
		t.Fatalf("precondition failed: expected route to C via B")
	}

	a.HandleRemoveLink(1)

	if a.forwarding["C"] != 2 {
		t.Fatalf("got forwarding[C]=%v, want port 2 (direct A-C) after A-B goes down", a.forwarding["C"])
	}
	checkLSInvariants(t, a)
}

func TestLSStaleLSAIgnoredAndNotReflooded(t *testing.T) {
	// Scenario 4: deliver seq 5 then seq 3 for B. The second is
	// ignored and not re-flooded; the LSDB still shows seq 5.
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	a.HandleNewLink(1, "B", 1)
	a.HandleNewLink(2, "C", 1) // a second neighbor so a reflood would be observable
	sender.reset()

	a.HandlePacket(1, lsaPacketFrom("B", 5, map[Address]Cost{"A": 1}))
	floodsAfterFirst := len(sender.sent)
	if floodsAfterFirst == 0 {
		t.Fatalf("expected the first (newer) LSA to be flooded onward")
	}

	sender.reset()
	a.HandlePacket(1, lsaPacketFrom("B", 3, map[Address]Cost{"A": 1}))

	if len(sender.sent) != 0 {
		t.Fatalf("a stale LSA must not be re-flooded, got %d sends", len(sender.sent))
	}
	if a.lsdb["B"].sequence != 5 {
		t.Fatalf("got lsdb[B].sequence=%v, want 5 (stale update must not overwrite)", a.lsdb["B"].sequence)
	}
}

func TestLSIdempotentDuplicateDelivery(t *testing.T) {
	// Testable property (spec.md §8): delivering the same LSA twice
	// leaves the LSDB and forwarding table unchanged and produces no
	// second flood.
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	a.HandleNewLink(1, "B", 1)
	a.HandleNewLink(2, "C", 1)

	pkt := lsaPacketFrom("B", 5, map[Address]Cost{"A": 1, "C": 1})
	a.HandlePacket(1, pkt)
	forwardingAfterFirst := len(a.forwarding)

	sender.reset()
	a.HandlePacket(1, pkt)

	if len(sender.sent) != 0 {
		t.Fatalf("redelivering the same LSA must not flood again, got %d sends", len(sender.sent))
	}
	if len(a.forwarding) != forwardingAfterFirst {
		t.Fatalf("forwarding table changed on a duplicate delivery")
	}
}

func TestLSFloodExcludesArrivalPort(t *testing.T) {
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	a.HandleNewLink(1, "B", 1)
	a.HandleNewLink(2, "C", 1)
	a.HandleNewLink(3, "D", 1)
	sender.reset()

	a.HandlePacket(2, lsaPacketFrom("C", 1, map[Address]Cost{"A": 1}))

	for _, s := range sender.sent {
		if s.port == 2 {
			t.Fatalf("the LSA must not be re-flooded back out the arrival port")
		}
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected the LSA to be flooded to the other 2 neighbors, got %d", len(sender.sent))
	}
}

func TestLSTracerouteMissDropsSilently(t *testing.T) {
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	a.HandleNewLink(1, "B", 1)
	sender.reset()

	a.HandlePacket(1, &Packet{Kind: DataPacket, SrcAddr: "B", DstAddr: "Z"})

	if len(sender.sent) != 0 {
		t.Fatalf("expected no outbound send for an unroutable destination, got %d", len(sender.sent))
	}
}

func TestLSHandlePacketDropsMalformedPayload(t *testing.T) {
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	a.HandleNewLink(1, "B", 1)

	a.HandlePacket(1, &Packet{Kind: RoutingPacket, SrcAddr: "B", Content: []byte{0xFF}})
	checkLSInvariants(t, a) // must not panic or corrupt state
}

func TestLSHeartbeatLiveness(t *testing.T) {
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 100)
	a.HandleNewLink(1, "B", 1)
	sender.reset()

	a.HandleTime(50)
	if len(sender.sent) != 0 {
		t.Fatalf("no broadcast expected before the heartbeat interval elapses, got %d", len(sender.sent))
	}

	a.HandleTime(100)
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one broadcast at t=100, got %d", len(sender.sent))
	}
}

func TestLSRemoveLinkOnUnknownPortIsNoop(t *testing.T) {
	sender := &recordingSender{}
	a := NewLSAgent("A", sender, 1000)
	before := a.ownSequence
	a.HandleRemoveLink(42)
	if a.ownSequence != before {
		t.Fatalf("handling an unknown port must not bump the sequence number")
	}
}
