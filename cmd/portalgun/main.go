package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/audio"
	"github.com/smasonuk/portalgun/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	screenWidth  = 960
	screenHeight = 600
)

func main() {
	tuningPath := flag.String("tuning", "", "YAML tuning file, reloaded on change")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	soundDir := flag.String("sounds", "sounds", "directory holding the cue .wav files")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	tuning := portalgun.DefaultTuning()
	if *tuningPath != "" {
		tuning, err = portalgun.LoadTuning(*tuningPath)
		if err != nil {
			logger.Fatal("could not load tuning", zap.Error(err))
		}
	}

	// Missing cue files are skipped by the bank; only broken ones stop us.
	cues, err := audio.LoadDir(ebaudio.NewContext(audio.SampleRate), *soundDir, logger)
	if err != nil {
		logger.Fatal("could not load sounds", zap.Error(err))
	}

	g, err := game.New(game.Config{
		Width:      screenWidth,
		Height:     screenHeight,
		Tuning:     tuning,
		TuningPath: *tuningPath,
		Cues:       cues,
	}, logger)
	if err != nil {
		logger.Fatal("could not start game", zap.Error(err))
	}
	defer func() { _ = g.Close() }()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Portal Gun")
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("game stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	return config.Build()
}
