package routing

import "testing"

func TestVectorRoundTrip(t *testing.T) {
	vector := map[Address]Cost{"A": 0, "B": 1, "C": 16}

	decoded, err := DecodeVector(EncodeVector(vector))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !vectorsEqual(vector, decoded) {
		t.Fatalf("got %v, want %v", decoded, vector)
	}
}

func TestDecodeVectorTruncated(t *testing.T) {
	if _, err := DecodeVector([]byte{0, 0, 0, 1}); err == nil {
		t.Fatalf("expected an error decoding a truncated payload")
	}
	if _, err := DecodeVector(nil); err == nil {
		t.Fatalf("expected an error decoding an empty payload")
	}
}

func TestLSARoundTrip(t *testing.T) {
	neighbors := map[Address]Cost{"B": 1, "C": 3}

	decoded, err := DecodeLSA(EncodeLSA("A", 7, neighbors))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.originator != "A" || decoded.sequence != 7 {
		t.Fatalf("got originator=%v sequence=%v, want A 7", decoded.originator, decoded.sequence)
	}
	if len(decoded.neighbors) != len(neighbors) {
		t.Fatalf("got %d neighbors, want %d", len(decoded.neighbors), len(neighbors))
	}
	for addr, cost := range neighbors {
		if decoded.neighbors[addr] != cost {
			t.Fatalf("neighbor %v: got %v, want %v", addr, decoded.neighbors[addr], cost)
		}
	}
}

func TestDecodeLSATruncated(t *testing.T) {
	if _, err := DecodeLSA([]byte{0, 0, 0, 1, 'A'}); err == nil {
		t.Fatalf("expected an error decoding a truncated LSA payload")
	}
}
