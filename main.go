package main

import "chatrelay/internal/commands"

func main() {
	commands.Execute()
}
