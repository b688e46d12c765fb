package simulator

import (
	"strings"
	"testing"

	"bjoernblessin.de/pathrouter/routing"
)

func buildTriangle(t *testing.T, variant Variant) *Network {
	t.Helper()
	net := NewNetwork()
	for _, addr := range []routing.Address{"A", "B", "C"} {
		if err := net.AddNode(addr, variant, 10_000); err != nil {
			t.Fatalf("AddNode(%s): %v", addr, err)
		}
	}
	if err := net.Link("A", "B", 1); err != nil {
		t.Fatalf("Link A-B: %v", err)
	}
	if err := net.Link("B", "C", 1); err != nil {
		t.Fatalf("Link B-C: %v", err)
	}
	if err := net.Link("A", "C", 5); err != nil {
		t.Fatalf("Link A-C: %v", err)
	}
	return net
}

func TestLSTriangleQuiescesToShortestPath(t *testing.T) {
	net := buildTriangle(t, LinkState)

	// Flooding on link-up already queues every LSA. With a 10s
	// heartbeat, Tick(0) sends no heartbeat; it only drains that
	// queue so the floods propagate.
	net.Tick(0)

	ls := net.nodes["A"].agent.(*routing.LSAgent)
	snapshot := ls.Snapshot()
	if snapshot == "" {
		t.Fatalf("expected a non-empty snapshot")
	}
	// A's port 0 is A-B and port 1 is A-C: C must be reached via B
	// (cost 2) rather than the direct link (cost 5).
	if !strings.Contains(snapshot, "  C -> port 0\n") {
		t.Fatalf("expected A to route to C via B (port 0), got:\n%s", snapshot)
	}
}

func TestDVTriangleAndFailureScenario(t *testing.T) {
	net := buildTriangle(t, DistanceVector)
	// With a 10s heartbeat these ticks send no heartbeats; each one
	// drains the triggered updates queued so far.
	net.Tick(0)
	net.Tick(200)

	if err := net.Unlink("A", "B"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	net.Tick(400)

	// After the A-B link drops, A must still be able to reach C via
	// its direct (higher-cost) link.
	if net.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", net.NodeCount())
	}
	dv := net.nodes["A"].agent.(*routing.DVAgent)
	snapshot := dv.Snapshot()
	// A's port 1 is the A-C link (port 0 was A-B).
	if !strings.Contains(snapshot, "  C: 5\n") || !strings.Contains(snapshot, "  C -> port 1\n") {
		t.Fatalf("expected A to reach C over the direct link at cost 5, got:\n%s", snapshot)
	}
}

func TestLinkRejectsUnknownNodes(t *testing.T) {
	net := NewNetwork()
	net.AddNode("A", LinkState, 1000)
	if err := net.Link("A", "ghost", 1); err == nil {
		t.Fatalf("expected an error linking to an unregistered node")
	}
}

func TestAddNodeRejectsDuplicate(t *testing.T) {
	net := NewNetwork()
	if err := net.AddNode("A", LinkState, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := net.AddNode("A", LinkState, 1000); err == nil {
		t.Fatalf("expected an error re-registering the same node")
	}
}

func TestUnlinkUnknownLinkIsNoop(t *testing.T) {
	net := NewNetwork()
	net.AddNode("A", LinkState, 1000)
	net.AddNode("B", LinkState, 1000)
	if err := net.Unlink("A", "B"); err != nil {
		t.Fatalf("unlinking a non-existent link should be a no-op, got error: %v", err)
	}
}

func TestSendDataUnknownNode(t *testing.T) {
	net := NewNetwork()
	if err := net.SendData("ghost", "B", nil); err == nil {
		t.Fatalf("expected an error sending from an unregistered node")
	}
}
