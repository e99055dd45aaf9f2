package dualencoder

import "context"

// Provider is the contract the Client delegates to. Only one implementation
// exists (inferenceProvider); it is unexported on purpose to keep all
// endpoint-level detail internal.
type Provider interface {
	// EmbedTexts generates one embedding per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedImages generates one embedding per input image (raw encoded bytes).
	EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error)
}

// Score is one entry of the similarity distribution Rank produces over a
// candidate text set.
type Score struct {
	// Text is the candidate this score belongs to.
	Text string `json:"text"`

	// Cosine is the raw cosine similarity between the image and text
	// embeddings, in [-1, 1].
	Cosine float64 `json:"cosine"`

	// Probability is the softmax of the logit-scaled cosines across all
	// candidates. The probabilities of one Rank call sum to 1.
	Probability float64 `json:"probability"`
}
