// Package config holds the tunables shared across the routing core.
package config

import "time"

// DefaultHeartbeatInterval is the rebroadcast period used when a
// harness does not supply its own (see spec.md §4.F).
const DefaultHeartbeatInterval = 100 * time.Millisecond

// SeenFloodsCapacity is not read by any code in this module. The LS
// agent bounds its flood state by keeping only the highest sequence
// number seen per originator (one map entry per originator) rather
// than every (originator, sequence) pair; that map has no further
// size limit.
const SeenFloodsCapacity = 4096
