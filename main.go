package main

import (
	"github.com/hristov111/companion/cmd"
)

func main() {
	cmd.Execute()
}
