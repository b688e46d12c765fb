package cmd

import (
	"fmt"
	"strconv"
)

// HandleTick processes the "tick" command to advance the simulated
// clock by the given number of milliseconds and deliver heartbeats.
// Usage: tick <delta_ms>
func HandleTick(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: tick <delta_ms>")
		return
	}

	delta, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || delta < 0 {
		fmt.Printf("Invalid delta_ms: %s\n", args[0])
		return
	}

	clockMs += delta
	net.Tick(clockMs)
	fmt.Printf("clock now at %d ms\n", clockMs)
}
