package port

import "context"

// CompletionClient abstracts a single non-streaming LLM text completion.
// Implementations request deterministic decoding so that retries on identical
// input tend to reproduce identical output.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
