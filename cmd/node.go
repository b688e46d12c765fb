package cmd

import (
	"fmt"
	"strconv"

	"bjoernblessin.de/pathrouter/routing"
	"bjoernblessin.de/pathrouter/simulator"
)

// HandleNode processes the "node" command to register a new router.
// Usage: node <address> <dv|ls> [heartbeat_ms]
func HandleNode(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: node <address> <dv|ls> [heartbeat_ms]")
		return
	}

	var variant simulator.Variant
	switch args[1] {
	case "dv":
		variant = simulator.DistanceVector
	case "ls":
		variant = simulator.LinkState
	default:
		fmt.Printf("Unknown variant: %s (want dv or ls)\n", args[1])
		return
	}

	heartbeat := int64(1000)
	if len(args) >= 3 {
		parsed, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid heartbeat_ms: %s\n", args[2])
			return
		}
		heartbeat = parsed
	}

	if err := net.AddNode(routing.Address(args[0]), variant, heartbeat); err != nil {
		fmt.Println(err)
	}
}
