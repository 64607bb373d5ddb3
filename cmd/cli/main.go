package main

import "tapea/cmd/cli/command"

func main() {
	command.Execute()
}
