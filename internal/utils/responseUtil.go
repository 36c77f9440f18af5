package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptbrew/internal/llm"
	"github.com/llmgate/promptbrew/internal/logger"
	"github.com/llmgate/promptbrew/models"
)

func ProcessBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
}

// ProcessError writes err as {"detail": ...}. Provider HTTP failures keep the
// provider's status and body, everything else is a 500.
func ProcessError(c *gin.Context, log *logger.Logger, err error) {
	var httpErr *llm.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode > 0 {
		log.Error("Provider request failed", "path", c.FullPath(), "status", httpErr.StatusCode, "error", err)
		c.JSON(httpErr.StatusCode, models.ErrorResponse{Detail: httpErr.Body})
		return
	}

	log.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: err.Error()})
}
