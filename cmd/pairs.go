package cmd

import (
	"fmt"
	"strings"

	"github.com/llmgate/promptbrew/models"
)

// parsePairs turns repeated name=value flags into an ordered map. Later
// flags for the same name win.
func parsePairs(flag string, raw []string) (*models.StringMap, error) {
	pairs := models.NewStringMap()
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected name=value", flag, entry)
		}
		pairs.Set(name, value)
	}
	return pairs, nil
}
