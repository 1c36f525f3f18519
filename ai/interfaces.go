package ai

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single prior conversation turn passed along with a request.
type Message struct {
	Role    Role
	Content string
}

// Request is a text-completion request normalized across backends.
type Request struct {
	// Prompt is the user-turn content.
	Prompt string

	// System is the system prompt. May be empty.
	System string

	// History holds prior conversation turns, oldest first. May be nil.
	History []Message

	// JSONMode asks the backend for a JSON-only response where supported.
	JSONMode bool
}

// Completer is a single AI backend normalized to the completion contract.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Name returns the backend's stable identifier (e.g. "openai", "ollama").
	Name() string

	// Complete generates a text completion for the request.
	// Returns an error if the backend call fails; the caller decides whether
	// the error is transient and worth retrying.
	Complete(ctx context.Context, req Request) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
