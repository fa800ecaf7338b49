//go:build !llama

package llm

import "context"

// This file provides a no-CGO stub for the llama adapter. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real adapter lives in llama.go (tagged 'llama').

type llamaAdapter struct {
	ctxSize int
	threads int
}

// NewLlamaAdapter returns the generation backend. Without the 'llama' build
// tag it refuses to load weights rather than mock inference.
func NewLlamaAdapter(ctxSize, threads int) Adapter {
	return &llamaAdapter{ctxSize: ctxSize, threads: threads}
}

func (a *llamaAdapter) Load(path string, params Params) (Session, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

type llamaSession struct{}

func (s *llamaSession) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "", ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (s *llamaSession) Close() error { return nil }
