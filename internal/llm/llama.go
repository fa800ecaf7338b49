//go:build llama

package llm

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaAdapter holds global config used to initialize a model session.
type llamaAdapter struct {
	ctxSize int
	threads int
}

// NewLlamaAdapter returns the in-process go-llama.cpp backend.
func NewLlamaAdapter(ctxSize, threads int) Adapter {
	return &llamaAdapter{ctxSize: ctxSize, threads: threads}
}

func (a *llamaAdapter) Load(path string, params Params) (Session, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	ctxSize := params.CtxSize
	if ctxSize <= 0 {
		ctxSize = a.ctxSize
	}
	threads := params.Threads
	if threads <= 0 {
		threads = a.threads
	}
	m, err := llama.New(path, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaSession{model: m, threads: threads}, nil
}

// llamaSession owns the loaded model.
type llamaSession struct {
	model   *llama.LLama
	threads int
}

func (s *llamaSession) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	// Accumulate tokens so a canceled call still returns partial output.
	var b strings.Builder
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		b.WriteString(tok)
		return true
	})
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, opts.MaxTokens)),
		llama.SetThreads(maxInt(1, s.threads)),
		llama.SetTemperature(float32Or(opts.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetTopP(float32Or(opts.TopP, llama.DefaultOptions.TopP)),
	}
	if len(opts.Stop) > 0 {
		po = append(po, llama.SetStopWords(opts.Stop...))
	}
	text, err := s.model.Predict(prompt, po...)
	if err != nil {
		if ctx.Err() != nil {
			return b.String(), ctx.Err()
		}
		return "", err
	}
	if text == "" {
		text = b.String()
	}
	return text, nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func float32Or(v float64, def float32) float32 {
	if v > 0 {
		return float32(v)
	}
	return def
}
