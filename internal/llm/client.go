// Package llm implements the optional external LLM contract: a single
// completion operation that degrades to nil on failure or timeout rather
// than propagating an error, so callers like the advisor's explanation stage
// (C9) can treat it as "LLM unavailable" instead of a fatal condition.
package llm

import "context"

// Options configures one completion call.
type Options struct {
	SystemPrompt string
	MaxTokens    int
}

// Client is the external LLM contract. GenerateCompletion returns (nil, nil)
// on any failure or timeout — never a non-nil error for an unavailable LLM,
// so callers don't need to distinguish "down" from "declined".
type Client interface {
	GenerateCompletion(ctx context.Context, prompt string, opts Options) (*string, error)
}
