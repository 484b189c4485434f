package orchestrator

import (
	_ "embed"
	"strings"
)

//go:embed template/system.txt
var systemPromptRaw string

func systemPrompt() string {
	return strings.TrimSpace(systemPromptRaw)
}
