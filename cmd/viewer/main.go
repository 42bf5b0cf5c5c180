//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"outbreak/internal/app"
	"outbreak/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	runCfg, err := cfg.OutbreakConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	sess, err := session.New(runCfg, log.New(os.Stderr, "viewer: ", log.LstdFlags))
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	game := app.New(sess, cfg)

	ebiten.SetWindowTitle(fmt.Sprintf("Outbreak, population %d", runCfg.Population))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Size+cfg.HUDWidth, cfg.Size)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
