package ai

import "context"

// Completer sends a prompt to the given model and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Models are the identifiers offered in the model selector.
var Models = []string{
	"llama3.2-3b",
	"claude-3-5-sonnet",
	"mistral-large2",
	"llama3.1-70b",
	"mixtral-8x7b",
}

// DefaultModel is used when a request leaves the model empty.
const DefaultModel = "llama3.2-3b"

func IsKnownModel(model string) bool {
	for _, m := range Models {
		if m == model {
			return true
		}
	}
	return false
}
