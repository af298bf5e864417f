package main

import (
	"github.com/luminalabs/lumina-cli/internal/commands"
)

func main() {
	commands.Execute()
}
