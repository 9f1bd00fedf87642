package main

import "github.com/Polqt/aica-bot-sub001/cmd"

func main() {
	cmd.Execute()
}
