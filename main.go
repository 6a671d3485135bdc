package main

import (
	"github.com/azeemi/sharebook/internal/config"
	"github.com/azeemi/sharebook/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
