package llm

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// GenAIClient wraps the Gemini API behind the Client contract. Every call
// degrades to (nil, nil) on error or timeout: it never returns a non-nil
// error, since an unavailable LLM is not a fatal condition for any caller in
// this module.
type GenAIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAIClient builds a GenAIClient against an already-authenticated genai
// client. timeout bounds each GenerateCompletion call independently of the
// caller's context; a call that exceeds it degrades to nil rather than
// propagating a deadline error.
func NewGenAIClient(client *genai.Client, model string, timeout time.Duration) *GenAIClient {
	return &GenAIClient{client: client, model: model, timeout: timeout}
}

func (c *GenAIClient) GenerateCompletion(ctx context.Context, prompt string, opts Options) (*string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if opts.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, nil
	}
	text := resp.Text()
	if text == "" {
		return nil, nil
	}
	return &text, nil
}
