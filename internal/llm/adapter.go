package llm

import "context"

// Adapter abstracts the text-generation engine. Concrete implementations
// (go-llama.cpp) should satisfy this interface; the default build carries a
// stub that fails fast instead of mocking inference.
type Adapter interface {
	// Load reads weights from path and prepares a session for generation.
	Load(path string, params Params) (Session, error)
}

// Params are resource parameters applied when loading weights.
type Params struct {
	// Context window size in tokens.
	CtxSize int
	// CPU threads used for generation.
	Threads int
}

// Session is a loaded model handle. Sessions are owned by the slot manager;
// other components borrow one for the duration of a single call and must
// never cache it.
type Session interface {
	// Generate produces text for prompt. Implementations must return when
	// ctx is canceled, and should return the text produced so far together
	// with ctx.Err() so callers can treat a timeout as partial output.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	// Close releases the model's resources.
	Close() error
}

// Options are per-call sampling limits and stop conditions.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	Stop        []string
}

// unavailableError signals that no generation backend was compiled in or the
// backend's external dependency is missing.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing generation backend.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
