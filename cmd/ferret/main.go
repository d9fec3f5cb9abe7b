package main

import "github.com/panyam/ferret/cmd/ferret/commands"

func main() {
	commands.Execute()
}
