package main

import (
	"github.com/cbrackley/capC-MAP/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
