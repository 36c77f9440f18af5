package cmd

import (
	"context"
	"fmt"

	googlemonitoring "github.com/llmgate/promptbrew/googleMonitoring"
	"github.com/llmgate/promptbrew/internal/brew"
	"github.com/llmgate/promptbrew/internal/config"
	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/internal/llm/providers"
	"github.com/llmgate/promptbrew/internal/logger"
)

// app holds everything a command needs, built once from config.
type app struct {
	config     *config.Config
	log        *logger.Logger
	monitoring *googlemonitoring.MonitoringClient
	client     *llm.Client
	generator  *brew.DimensionGenerator
	refiner    *brew.Refiner
	runner     *brew.Runner
}

func newApp(ctx context.Context, configName string) (*app, error) {
	cfg, err := config.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	monitoring, err := googlemonitoring.NewMonitoringClient(ctx, cfg.Monitoring)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitoring client: %w", err)
	}

	backend, err := providers.NewBackend(cfg.LLM)
	if err != nil {
		monitoring.Close()
		return nil, err
	}
	log.Info("LLM backend ready", "provider", backend.Name(), "model", backend.Model())

	client := llm.NewClient(backend, log, llm.WithRecorder(monitoring))
	return &app{
		config:     cfg,
		log:        log,
		monitoring: monitoring,
		client:     client,
		generator:  brew.NewDimensionGenerator(client, log, dimensionOptions(cfg.Brew)),
		refiner:    brew.NewRefiner(client, log),
		runner:     brew.NewRunner(client),
	}, nil
}

func (a *app) Close() {
	if err := a.monitoring.Close(); err != nil {
		a.log.Warn("Failed to close monitoring client", "error", err)
	}
	a.log.Sync()
}

func dimensionOptions(brewConfig config.BrewConfig) brew.DimensionOptions {
	return brew.DimensionOptions{
		NominalCount:     brewConfig.NominalCount,
		ValuesPerNominal: brewConfig.ValuesPerNominal,
		OrdinalCount:     brewConfig.OrdinalCount,
		RepairJSON:       brewConfig.RepairJSON,
	}
}
