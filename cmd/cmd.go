// Package cmd implements the simulator CLI's command handlers,
// dispatched from cmd/inputreader. Each handler drives the shared
// *simulator.Network set up by SetGlobalVars, mirroring the teacher's
// cmd package's use of package-level globals shared across handlers.
package cmd

import (
	"bjoernblessin.de/pathrouter/simulator"
)

var net *simulator.Network
var clockMs int64

// SetGlobalVars wires the shared simulator network used by every
// command handler.
func SetGlobalVars(n *simulator.Network) {
	net = n
}
