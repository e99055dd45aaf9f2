package dualencoder

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// inferenceProvider talks to an OpenAI-compatible /v1/embeddings endpoint
// that serves a pretrained dual encoder. Text inputs go through as plain
// strings; image inputs as base64 data URLs, which multimodal embedding
// servers accept in the same input array.
type inferenceProvider struct {
	baseURL      string
	serviceToken string
	model        string
	httpClient   *http.Client
}

func newInferenceProvider(cfg *Config) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing DUAL_ENCODER_ENDPOINT")
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(cfg.Endpoint, "/")

	return &inferenceProvider{
		baseURL:      base,
		serviceToken: cfg.ServiceToken,
		model:        cfg.Model,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

// embeddingsResponse is the subset of the /v1/embeddings reply we consume.
type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// EmbedTexts generates embeddings for the given texts using the configured model.
func (p *inferenceProvider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	reqBody := map[string]any{
		"model": p.model,
		"input": texts,
	}

	return p.requestEmbeddings(ctx, reqBody, len(texts))
}

// EmbedImages generates embeddings for the given images. Each image is sent
// as a base64 data URL in the input array.
func (p *inferenceProvider) EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("inference: no images provided")
	}

	input := make([]map[string]any, len(images))
	for i, img := range images {
		if len(img) == 0 {
			return nil, fmt.Errorf("inference: image %d is empty", i)
		}
		input[i] = map[string]any{
			"type":      "image_url",
			"image_url": map[string]string{"url": dataURL(img)},
		}
	}

	reqBody := map[string]any{
		"model": p.model,
		"input": input,
	}

	return p.requestEmbeddings(ctx, reqBody, len(images))
}

// requestEmbeddings posts the request body and unpacks the embedding matrix,
// checking that the endpoint returned exactly one vector per input.
func (p *inferenceProvider) requestEmbeddings(ctx context.Context, body any, want int) ([][]float32, error) {
	url := fmt.Sprintf("%s/v1/embeddings", p.baseURL)

	var parsed embeddingsResponse
	if err := p.postJSON(ctx, url, body, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != want {
		return nil, fmt.Errorf("inference: expected %d embeddings, got %d", want, len(parsed.Data))
	}

	out := make([][]float32, len(parsed.Data))
	dim := -1
	for i, d := range parsed.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("inference: embedding %d is empty", i)
		}
		if dim == -1 {
			dim = len(d.Embedding)
		} else if len(d.Embedding) != dim {
			return nil, fmt.Errorf("inference: embedding %d has dimension %d, expected %d", i, len(d.Embedding), dim)
		}
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}

	return out, nil
}
