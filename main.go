package main

import (
	"fmt"
	"log"

	"bjoernblessin.de/pathrouter/cmd"
	"bjoernblessin.de/pathrouter/cmd/inputreader"
	"bjoernblessin.de/pathrouter/simulator"
)

func main() {
	log.Println("Running...")

	net := simulator.NewNetwork()
	cmd.SetGlobalVars(net)

	reader := inputreader.NewInputReader(func() string {
		return fmt.Sprintf("%d nodes", net.NodeCount())
	})

	reader.AddHandler("node", cmd.HandleNode)
	reader.AddHandler("link", cmd.HandleLink)
	reader.AddHandler("unlink", cmd.HandleUnlink)
	reader.AddHandler("tick", cmd.HandleTick)
	reader.AddHandler("send", cmd.HandleSend)
	reader.AddHandler("snapshot", cmd.HandleSnapshot)
	reader.AddHandler("loglvl", cmd.HandleLogLevel)
	reader.AddHandler("exit", cmd.HandleExit)

	fmt.Println("pathrouter simulator. Commands: node, link, unlink, tick, send, snapshot, loglvl, exit")

	reader.InputLoop()
}
