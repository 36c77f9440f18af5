package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configName string

var RootCmd = &cobra.Command{
	Use:   "promptbrew",
	Short: "PromptBrew - tune LLM prompts along suggested dimensions",
	Long: `PromptBrew suggests stylistic dimensions for a draft prompt, refines the
prompt against chosen dimension values, and test-runs rendered prompts.

Available commands:
  serve       - Start the HTTP API (default)
  dimensions  - Suggest nominal and ordinal dimensions for a prompt
  refine      - Refine a prompt against chosen dimension values
  test        - Render a prompt's variables and run it

Examples:
  promptbrew serve
  promptbrew dimensions "Write a story"
  promptbrew refine "Write a story" -r Genre=Comedy -i topic="what the story is about"
  promptbrew test "Write a story about {{topic}}" -i topic="a dog's adventure"`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "default"
	}
	RootCmd.PersistentFlags().StringVarP(&configName, "config", "c", env, "Config file name without the .yaml extension")

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(DimensionsCmd)
	RootCmd.AddCommand(RefineCmd)
	RootCmd.AddCommand(TestCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
