package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptbrew/internal/brew"
	"github.com/llmgate/promptbrew/internal/logger"
	"github.com/llmgate/promptbrew/internal/utils"
	"github.com/llmgate/promptbrew/models"
)

type DimensionGenerator interface {
	Generate(ctx context.Context, prompt string) (*models.Dimensions, error)
}

type PromptRefiner interface {
	Refine(ctx context.Context, prompt string, requirements, inputVariables *models.StringMap, style models.PromptStyle, temperature float32) (string, error)
}

type PromptRunner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

type PromptBrewHandler struct {
	generator   DimensionGenerator
	refiner     PromptRefiner
	runner      PromptRunner
	temperature float32
	log         *logger.Logger
}

func NewPromptBrewHandler(
	generator DimensionGenerator,
	refiner PromptRefiner,
	runner PromptRunner,
	temperature float32,
	log *logger.Logger) *PromptBrewHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PromptBrewHandler{
		generator:   generator,
		refiner:     refiner,
		runner:      runner,
		temperature: temperature,
		log:         log,
	}
}

// Register mounts the three operations under /promptbrew.
func (h *PromptBrewHandler) Register(router gin.IRouter) {
	group := router.Group("/promptbrew")
	group.POST("/generate-dimensions", h.GenerateDimensions)
	group.POST("/generate-refined-prompt", h.GenerateRefinedPrompt)
	group.POST("/test-prompt", h.TestPrompt)
}

func (h *PromptBrewHandler) GenerateDimensions(c *gin.Context) {
	var request models.GenerateDimensionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ProcessBadRequest(c, err)
		return
	}

	prompt := *request.Prompt
	h.log.Info("Generating dimensions")
	dimensions, err := h.generator.Generate(c.Request.Context(), prompt)
	if err != nil {
		utils.ProcessError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateDimensionsResponse{
		Prompt:     prompt,
		Dimensions: dimensions,
	})
}

func (h *PromptBrewHandler) GenerateRefinedPrompt(c *gin.Context) {
	var request models.GenerateRefinedPromptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ProcessBadRequest(c, err)
		return
	}
	request.Normalize()

	refined, err := h.refiner.Refine(
		c.Request.Context(),
		*request.Prompt,
		request.Dimensions,
		request.InputVariables,
		request.PromptStyle,
		h.temperature,
	)
	if err != nil {
		utils.ProcessError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateRefinedPromptResponse{
		RefinedPrompt:  refined,
		InputVariables: request.InputVariables,
		PromptStyle:    request.PromptStyle,
	})
}

// TestPrompt fills the prompt's placeholders and runs it. The response body
// is the model output as a JSON string.
func (h *PromptBrewHandler) TestPrompt(c *gin.Context) {
	var request models.TestPromptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ProcessBadRequest(c, err)
		return
	}
	request.Normalize()

	rendered, err := brew.RenderPrompt(*request.Prompt, request.InputVariables)
	if err != nil {
		utils.ProcessError(c, h.log, err)
		return
	}
	h.log.Debug("Running prompt", "prompt", rendered)

	output, err := h.runner.Run(c.Request.Context(), rendered)
	if err != nil {
		utils.ProcessError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
