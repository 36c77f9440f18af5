package main

import "github.com/llmgate/promptbrew/cmd"

func main() {
	cmd.Execute()
}
