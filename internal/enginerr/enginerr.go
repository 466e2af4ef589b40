// Package enginerr defines the error kinds the engine core surfaces to
// callers, mirroring vulkango.Result's enum+Error() shape rather than
// inventing a separate convention.
package enginerr

import "fmt"

// Kind enumerates the error categories the core can produce.
type Kind int

const (
	InvalidInput Kind = iota
	AssetError
	BackendError
	OutOfMemory
	SwapchainOutOfDate
	PoolExhausted
	MaxPoolSizeReached
	InvalidHandle
	GlyphNotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case AssetError:
		return "AssetError"
	case BackendError:
		return "BackendError"
	case OutOfMemory:
		return "OutOfMemory"
	case SwapchainOutOfDate:
		return "SwapchainOutOfDate"
	case PoolExhausted:
		return "PoolExhausted"
	case MaxPoolSizeReached:
		return "MaxPoolSizeReached"
	case InvalidHandle:
		return "InvalidHandle"
	case GlyphNotFound:
		return "GlyphNotFound"
	default:
		return "Unknown"
	}
}

// EngineError is the structured status (kind + short message) the core
// returns to callers; no stack traces are attached in release builds.
type EngineError struct {
	Kind    Kind
	Message string
	Path    string
	Line    int
	Code    int32
}

func (e *EngineError) Error() string {
	if e.Path != "" && e.Line > 0 {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Kind, e.Message, e.Path, e.Line)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string) *EngineError {
	return &EngineError{Kind: kind, Message: message}
}

func Asset(path string, line int, message string) *EngineError {
	return &EngineError{Kind: AssetError, Message: message, Path: path, Line: line}
}

func Backend(message string, code int32) *EngineError {
	return &EngineError{Kind: BackendError, Message: message, Code: code}
}

// Is reports whether err is an *EngineError of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*EngineError)
	return ok && e.Kind == kind
}
