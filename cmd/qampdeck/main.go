package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config is populated from QAMPDECK_* environment variables, with an
// optional .env file for local overrides.
type Config struct {
	Qubits   int    `envconfig:"QUBITS" default:"4"`
	Workers  int    `envconfig:"WORKERS" default:"0"`
	Sparse   bool   `envconfig:"SPARSE" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"qampdeck.log"`
}

func newLogger(cfg Config) (zerolog.Logger, *os.File, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// The terminal belongs to the TUI, so logs go to a file.
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	log := zerolog.New(f).
		Level(level).
		With().
		Timestamp().
		Str("service", "qampdeck").
		Logger()
	return log, f, nil
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("QAMPDECK", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg.Qubits = min(max(cfg.Qubits, 1), maxViewQubits)

	log, logFile, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log.Info().
		Int("qubits", cfg.Qubits).
		Int("workers", cfg.Workers).
		Bool("sparse", cfg.Sparse).
		Msg("starting qampdeck")

	p := tea.NewProgram(initialModel(cfg, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
