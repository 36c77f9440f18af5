package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmgate/promptbrew/internal/brew"
)

var testVariables []string

var TestCmd = &cobra.Command{
	Use:   "test <prompt>",
	Short: "Render a prompt's {{variables}} and run it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variables, err := parsePairs("var", testVariables)
		if err != nil {
			return err
		}
		rendered, err := brew.RenderPrompt(args[0], variables)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), configName)
		if err != nil {
			return err
		}
		defer a.Close()

		output, err := a.runner.Run(cmd.Context(), rendered)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	TestCmd.Flags().StringArrayVarP(&testVariables, "var", "i", nil, "Input variable as name=value (repeatable)")
}
