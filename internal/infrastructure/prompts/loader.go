package prompts

import (
	_ "embed"
)

//go:embed system.txt
var SystemPrompt string

//go:embed clone.txt
var ClonePrompt string
