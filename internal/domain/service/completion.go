// Package service defines interfaces for external collaborators the use case
// layer depends on, keeping infrastructure concerns out of the domain.
package service

import "context"

// CompletionService is the driven port for a large-language-model completion
// endpoint. Implementations send one system+user exchange and return the
// single text completion.
type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
