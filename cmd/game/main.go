package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Firefight/internal/config"
	"github.com/Garsondee/Firefight/internal/game"
)

func main() {
	var cfgPath string
	var scenario string
	var seed int64

	flag.StringVar(&cfgPath, "config", "", "optional YAML/JSON config file")
	flag.StringVar(&scenario, "scenario", "", "scenario name (overrides config)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = config value)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = log.Level(cfg.Level())

	arenaCfg, err := cfg.Arena()
	if err != nil {
		log.Fatal().Err(err).Msg("arena config")
	}
	if scenario == "" {
		scenario = cfg.Sim.Scenario
	}
	if seed == 0 {
		seed = cfg.Sim.Seed
	}

	g, err := game.New(scenario, arenaCfg, seed, cfg.DT(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("build scenario")
	}
	ebiten.SetWindowTitle("Firefight")
	ebiten.SetWindowSize(g.WindowSize())
	ebiten.SetTPS(cfg.Sim.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}
