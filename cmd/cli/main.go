package main

import "recipehub/cmd/cli/command"

func main() {
	command.Execute()
}
