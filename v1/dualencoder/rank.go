package dualencoder

import (
	"context"
	"fmt"
	"sort"

	"github.com/vantage-ml/multimodal/v1/similarity"
)

// Rank scores an image against a set of candidate texts and returns a
// normalized similarity distribution, highest probability first.
//
// This is the zero-shot classification operation of a dual encoder: both
// sides are embedded into the shared space, the cosine similarity of each
// image/text pair is scaled by the model's logit scale, and a softmax turns
// the scaled logits into probabilities over the candidates.
//
// Example:
//
//	scores, err := client.Rank(ctx, photo, []string{
//	    "a photo of a cat",
//	    "a photo of a dog",
//	})
//	// scores[0].Text is the best-matching candidate,
//	// scores[i].Probability sums to 1 across candidates.
func (c *Client) Rank(ctx context.Context, image []byte, candidates []string) ([]Score, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("dualencoder: rank: image is empty")
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("dualencoder: rank: no candidate texts")
	}

	imgVecs, err := c.provider.EmbedImages(ctx, [][]byte{image})
	if err != nil {
		return nil, fmt.Errorf("dualencoder: rank: embed image: %w", err)
	}
	txtVecs, err := c.provider.EmbedTexts(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("dualencoder: rank: embed candidates: %w", err)
	}

	imgVec := imgVecs[0]
	cosines := make([]float64, len(candidates))
	logits := make([]float64, len(candidates))
	for i, tv := range txtVecs {
		cos, err := similarity.Cosine(imgVec, tv)
		if err != nil {
			return nil, fmt.Errorf("dualencoder: rank: candidate %d: %w", i, err)
		}
		cosines[i] = cos
		logits[i] = cos * c.logitScale
	}

	probs, err := similarity.Softmax(logits, 1.0)
	if err != nil {
		return nil, fmt.Errorf("dualencoder: rank: %w", err)
	}

	scores := make([]Score, len(candidates))
	for i, text := range candidates {
		scores[i] = Score{
			Text:        text,
			Cosine:      cosines[i],
			Probability: probs[i],
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})

	return scores, nil
}
