package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptbrew/models"
)

var (
	refineRequirements []string
	refineVariables    []string
	refineStyle        string
)

var RefineCmd = &cobra.Command{
	Use:   "refine <prompt>",
	Short: "Refine a prompt against chosen dimension values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requirements, err := parsePairs("requirement", refineRequirements)
		if err != nil {
			return err
		}
		variables, err := parsePairs("var", refineVariables)
		if err != nil {
			return err
		}
		style, err := models.ParsePromptStyle(refineStyle)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), configName)
		if err != nil {
			return err
		}
		defer a.Close()

		refined, err := a.refiner.Refine(cmd.Context(), args[0], requirements, variables, style, a.config.Brew.Temperature)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), refined)
		return nil
	},
}

func init() {
	RefineCmd.Flags().StringArrayVarP(&refineRequirements, "requirement", "r", nil, "Dimension value as name=value (repeatable)")
	RefineCmd.Flags().StringArrayVarP(&refineVariables, "var", "i", nil, "Input variable as name=description (repeatable)")
	RefineCmd.Flags().StringVarP(&refineStyle, "style", "s", string(models.PromptStyleSimple), "Prompt style")
}
