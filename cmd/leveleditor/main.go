package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hovercourse/internal/config"
	"hovercourse/internal/game"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "editor config file")
	levelPath := flag.String("level", "", "level to open, relative to the asset directory")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Editor: %v", err)
	}

	g := game.New(cfg)
	if err := g.Run(*levelPath); err != nil {
		log.Fatalf("Editor: %v", err)
	}
}
