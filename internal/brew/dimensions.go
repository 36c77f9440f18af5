package brew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/internal/logger"
	"github.com/llmgate/promptbrew/models"
	"github.com/llmgate/promptbrew/utils"
)

var (
	ErrParse        = errors.New("dimension output is not a JSON object of string lists")
	ErrUnknownStyle = errors.New("unknown prompt style")
)

// Sender is the part of *llm.Client the brew components need.
type Sender interface {
	Send(ctx context.Context, messages []llm.Message, temperature float32) (string, error)
}

const dimensionTemperature float32 = 0.3

type DimensionOptions struct {
	NominalCount     int
	ValuesPerNominal int
	OrdinalCount     int
	// RepairJSON retries a failed parse after running the output through a
	// JSON repairer.
	RepairJSON bool
}

func DefaultDimensionOptions() DimensionOptions {
	return DimensionOptions{
		NominalCount:     5,
		ValuesPerNominal: 5,
		OrdinalCount:     5,
	}
}

type DimensionGenerator struct {
	sender  Sender
	log     *logger.Logger
	options DimensionOptions
}

func NewDimensionGenerator(sender Sender, log *logger.Logger, options DimensionOptions) *DimensionGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &DimensionGenerator{sender: sender, log: log, options: options}
}

// Generate asks for nominal then ordinal dimensions and merges them. On a
// name collision the ordinal entry wins.
func (g *DimensionGenerator) Generate(ctx context.Context, prompt string) (*models.Dimensions, error) {
	nominal, err := g.Nominal(ctx, prompt)
	if err != nil {
		return nil, err
	}
	ordinal, err := g.Ordinal(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return g.merge(nominal, ordinal), nil
}

func (g *DimensionGenerator) Nominal(ctx context.Context, prompt string) (*models.Dimensions, error) {
	g.log.Debug("Getting nominal dimensions")
	content, err := render(nominalDimensionsTemplate, dimensionsData{
		CatNum: g.options.NominalCount,
		ValNum: g.options.ValuesPerNominal,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}
	return g.request(ctx, content)
}

func (g *DimensionGenerator) Ordinal(ctx context.Context, prompt string) (*models.Dimensions, error) {
	g.log.Debug("Getting ordinal dimensions")
	content, err := render(ordinalDimensionsTemplate, dimensionsData{
		CatNum: g.options.OrdinalCount,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}
	return g.request(ctx, content)
}

func (g *DimensionGenerator) request(ctx context.Context, content string) (*models.Dimensions, error) {
	response, err := g.sender.Send(ctx, []llm.Message{llm.UserMessage(content)}, dimensionTemperature)
	if err != nil {
		return nil, err
	}
	return g.parse(response)
}

func (g *DimensionGenerator) parse(response string) (*models.Dimensions, error) {
	cleaned := utils.CleanJSONResponse(response)
	dimensions := models.NewDimensions()
	if cleaned == "" {
		return dimensions, nil
	}

	err := json.Unmarshal([]byte(cleaned), dimensions)
	if err != nil && g.options.RepairJSON {
		g.log.Warn("Dimension output is not valid JSON, attempting repair", "error", err)
		repaired, repairErr := utils.RepairJSON(cleaned)
		if repairErr == nil {
			dimensions = models.NewDimensions()
			err = json.Unmarshal([]byte(repaired), dimensions)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return dimensions, nil
}

func (g *DimensionGenerator) merge(nominal, ordinal *models.Dimensions) *models.Dimensions {
	merged := models.NewDimensions()
	for pair := nominal.Oldest(); pair != nil; pair = pair.Next() {
		merged.Set(pair.Key, pair.Value)
	}
	for pair := ordinal.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := merged.Set(pair.Key, pair.Value); exists {
			g.log.Warn("Ordinal dimension replaces nominal dimension with the same name", "dimension", pair.Key)
		}
	}
	return merged
}

// MergeDimensions combines two dimension sets; entries in later overwrite
// entries in earlier with the same name.
func MergeDimensions(earlier, later *models.Dimensions) *models.Dimensions {
	return (&DimensionGenerator{log: logger.Nop()}).merge(earlier, later)
}
