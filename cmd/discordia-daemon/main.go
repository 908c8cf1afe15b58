package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aedjoel/discordia-go/internal/adapters/cli"
	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
)

func main() {
	forceFlag := flag.Bool("force", false, "Take over the PID file from an existing instance")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Discordia Daemon v0.1.0")
	fmt.Println("=======================")

	cfg := config.MustLoadConfig(*configFlag)

	if err := cli.RunDaemon(cfg, *forceFlag); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}
