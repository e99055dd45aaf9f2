package vqa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// inferenceProvider talks to an OpenAI-compatible /v1/chat/completions
// endpoint serving a pretrained vision-language model. The image travels as
// a base64 data URL content part next to the question text.
type inferenceProvider struct {
	baseURL      string
	serviceToken string
	model        string
	maxTokens    int
	temperature  float64
	httpClient   *http.Client
}

func newInferenceProvider(cfg *Config) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing VQA_ENDPOINT")
	}

	return &inferenceProvider{
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		serviceToken: cfg.ServiceToken,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

// completionsResponse is the subset of the /v1/chat/completions reply we consume.
type completionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends the image and question to the model and returns the raw
// generated text. Cleaning is the caller's concern.
func (p *inferenceProvider) Ask(ctx context.Context, image []byte, question string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("inference: image is empty")
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("inference: question is empty")
	}

	reqBody := map[string]any{
		"model":       p.model,
		"max_tokens":  p.maxTokens,
		"temperature": p.temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type":      "image_url",
						"image_url": map[string]string{"url": dataURL(image)},
					},
					{
						"type": "text",
						"text": question,
					},
				},
			},
		},
	}

	url := fmt.Sprintf("%s/v1/chat/completions", p.baseURL)

	var parsed completionsResponse
	if err := p.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("inference: response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// postJSON sends an HTTP POST request to the inference API.
// It marshals the given body as JSON, attaches required headers,
// handles HTTP error codes, and optionally decodes the response JSON into `out`.
func (p *inferenceProvider) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.serviceToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d for %s", resp.StatusCode, url)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}

// dataURL encodes raw image bytes as a base64 data URL with a sniffed
// content type.
func dataURL(img []byte) string {
	mime := http.DetectContentType(img)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img))
}
