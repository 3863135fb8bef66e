package llm

import "context"

// Unavailable always degrades to nil, for deployments with no configured LLM
// backend. It satisfies Client so the advisor can treat "no LLM configured"
// identically to "LLM call failed".
type Unavailable struct{}

func (Unavailable) GenerateCompletion(ctx context.Context, prompt string, opts Options) (*string, error) {
	return nil, nil
}
