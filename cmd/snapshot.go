package cmd

import "fmt"

// HandleSnapshot processes the "snapshot" command, printing every
// node's current routing state and forwarding table.
func HandleSnapshot(args []string) {
	fmt.Print(net.Snapshot())
}
