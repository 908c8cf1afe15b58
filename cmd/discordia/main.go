package main

import (
	"github.com/aedjoel/discordia-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
