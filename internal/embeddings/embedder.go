package embeddings

import "context"

// Embedder turns text into vectors for the concert index. Each
// implementation wraps one embedding backend.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors Embed produces.
	Dimensions() int

	// Name identifies the backing model.
	Name() string
}
