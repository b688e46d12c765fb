package routing

import (
	"encoding/binary"
	"errors"
)

// Control-message codec (component G). Both schemas are encoded as
// length-prefixed, BigEndian binary records, matching the teacher's
// own LSA wire format (handler/lsa.go's parseLSAPayload) rather than a
// textual encoding — spec.md §4.G allows either, and this keeps the
// idiom consistent with the rest of the module.
//
// DV vector wire format:
//
//	+--------+--------------------------------------------+
//	| uint32 | count of (address, cost) pairs that follow  |
//	+--------+--------------------------------------------+
//	| uint32 | length of address string                    |
//	|  ...   | address bytes                                |
//	| uint32 | cost                                         |
//	+-----------------------------------------------------+
//	        ... repeated count times ...
//
// LS advertisement wire format: the same address/cost pair encoding,
// preceded by the originator address and a uint32 sequence number.

var errTruncated = errors.New("routing: truncated control payload")

func putAddress(buf []byte, addr Address) []byte {
	b := []byte(addr)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
	buf = append(buf, b...)
	return buf
}

func takeAddress(buf []byte) (Address, []byte, error) {
	if len(buf) < 4 {
		return "", nil, errTruncated
	}
	n := binary.BigEndian.Uint32(buf)
	buf = buf[4:]
	if uint64(len(buf)) < uint64(n) {
		return "", nil, errTruncated
	}
	return Address(buf[:n]), buf[n:], nil
}

// EncodeVector serializes a DV distance vector (component B's
// own_vector) into an opaque payload.
func EncodeVector(vector map[Address]Cost) []byte {
	buf := make([]byte, 0, 4+len(vector)*12)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(vector)))
	for addr, cost := range vector {
		buf = putAddress(buf, addr)
		buf = binary.BigEndian.AppendUint32(buf, uint32(cost))
	}
	return buf
}

// DecodeVector parses a payload produced by EncodeVector. A decode
// failure is reported as an error so the caller can drop the packet
// silently per spec.md §7, never panicking on adversarial input.
func DecodeVector(payload []byte) (map[Address]Cost, error) {
	if len(payload) < 4 {
		return nil, errTruncated
	}
	count := binary.BigEndian.Uint32(payload)
	buf := payload[4:]

	vector := make(map[Address]Cost, count)
	for range count {
		addr, rest, err := takeAddress(buf)
		if err != nil {
			return nil, err
		}
		if len(rest) < 4 {
			return nil, errTruncated
		}
		cost := Cost(binary.BigEndian.Uint32(rest))
		vector[addr] = cost
		buf = rest[4:]
	}
	return vector, nil
}

// lsAdvertisement is the decoded form of an LS control payload
// (spec.md §4.G): an originator's neighbor list, tagged with a
// monotonic sequence number.
type lsAdvertisement struct {
	originator Address
	sequence   uint32
	neighbors  map[Address]Cost
}

// EncodeLSA serializes a link-state advertisement.
func EncodeLSA(originator Address, sequence uint32, neighbors map[Address]Cost) []byte {
	buf := make([]byte, 0, 8+len(neighbors)*12)
	buf = putAddress(buf, originator)
	buf = binary.BigEndian.AppendUint32(buf, sequence)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(neighbors)))
	for addr, cost := range neighbors {
		buf = putAddress(buf, addr)
		buf = binary.BigEndian.AppendUint32(buf, uint32(cost))
	}
	return buf
}

// DecodeLSA parses a payload produced by EncodeLSA.
func DecodeLSA(payload []byte) (lsAdvertisement, error) {
	originator, rest, err := takeAddress(payload)
	if err != nil {
		return lsAdvertisement{}, err
	}
	if len(rest) < 8 {
		return lsAdvertisement{}, errTruncated
	}
	sequence := binary.BigEndian.Uint32(rest)
	count := binary.BigEndian.Uint32(rest[4:])
	buf := rest[8:]

	neighbors := make(map[Address]Cost, count)
	for range count {
		addr, after, err := takeAddress(buf)
		if err != nil {
			return lsAdvertisement{}, err
		}
		if len(after) < 4 {
			return lsAdvertisement{}, errTruncated
		}
		cost := Cost(binary.BigEndian.Uint32(after))
		neighbors[addr] = cost
		buf = after[4:]
	}

	return lsAdvertisement{originator: originator, sequence: sequence, neighbors: neighbors}, nil
}
