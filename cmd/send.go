package cmd

import (
	"fmt"

	"bjoernblessin.de/pathrouter/routing"
)

// HandleSend processes the "send" command to inject a data
// (traceroute-style) packet from one node toward another.
// Usage: send <from> <to> [content...]
func HandleSend(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: send <from> <to> [content...]")
		return
	}

	content := ""
	for _, part := range args[2:] {
		content += part + " "
	}

	if err := net.SendData(routing.Address(args[0]), routing.Address(args[1]), []byte(content)); err != nil {
		fmt.Println(err)
	}
}
