package cmd

import (
	"fmt"
	"strconv"

	"bjoernblessin.de/pathrouter/routing"
)

// HandleLink processes the "link" command to bring up a connection
// between two nodes. Usage: link <a> <b> <cost>
func HandleLink(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: link <a> <b> <cost>")
		return
	}

	cost, err := strconv.Atoi(args[2])
	if err != nil || cost < 0 {
		fmt.Printf("Invalid cost: %s\n", args[2])
		return
	}

	if err := net.Link(routing.Address(args[0]), routing.Address(args[1]), routing.Cost(cost)); err != nil {
		fmt.Println(err)
		return
	}
	net.Drain()
}

// HandleUnlink processes the "unlink" command to tear down a
// connection between two nodes. Usage: unlink <a> <b>
func HandleUnlink(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: unlink <a> <b>")
		return
	}

	if err := net.Unlink(routing.Address(args[0]), routing.Address(args[1])); err != nil {
		fmt.Println(err)
		return
	}
	net.Drain()
}
