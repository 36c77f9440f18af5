package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptbrew/models"
)

var DimensionsCmd = &cobra.Command{
	Use:   "dimensions <prompt>",
	Short: "Suggest nominal and ordinal dimensions for a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), configName)
		if err != nil {
			return err
		}
		defer a.Close()

		dimensions, err := a.generator.Generate(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		output, err := json.MarshalIndent(models.GenerateDimensionsResponse{
			Prompt:     args[0],
			Dimensions: dimensions,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	},
}
