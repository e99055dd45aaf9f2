package vqa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCompletionsServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type     string `json:"type"`
					Text     string `json:"text"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Model)
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)

		var sawImage, sawText bool
		for _, part := range req.Messages[0].Content {
			switch part.Type {
			case "image_url":
				sawImage = true
				assert.True(t, strings.HasPrefix(part.ImageURL.URL, "data:"))
			case "text":
				sawText = true
				assert.NotEmpty(t, part.Text)
			}
		}
		require.True(t, sawImage, "request should carry the image")
		require.True(t, sawText, "request should carry the question")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		Endpoint:     endpoint,
		Model:        "blip-vqa-base",
		MaxTokens:    64,
		Temperature:  0.1,
		HTTPTimeoutS: 5,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{Model: "blip-vqa-base"})
	assert.Error(t, err)

	_, err = NewClient(&Config{Endpoint: "http://localhost:8080"})
	assert.Error(t, err)
}

func TestAnswer(t *testing.T) {
	srv := fakeCompletionsServer(t, "Two dogs.")
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	answer, err := client.Answer(context.Background(), []byte("\xff\xd8\xff fake jpeg"), "how many dogs are there?")
	require.NoError(t, err)
	assert.Equal(t, "Two dogs", answer)
}

func TestAnswer_InputValidation(t *testing.T) {
	client := newTestClient(t, "http://localhost:1")

	_, err := client.Answer(context.Background(), nil, "what is this?")
	assert.Error(t, err)

	_, err = client.Answer(context.Background(), []byte("img"), "   ")
	assert.Error(t, err)
}

func TestAnswer_EmptyReply(t *testing.T) {
	srv := fakeCompletionsServer(t, "   ")
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Answer(context.Background(), []byte("img"), "what is this?")
	assert.ErrorContains(t, err, "empty answer")
}

func TestAnswer_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Answer(context.Background(), []byte("img"), "what is this?")
	assert.ErrorContains(t, err, "http 503")
}

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		question string
		want     string
	}{
		{
			name: "plain",
			raw:  "a cat",
			want: "a cat",
		},
		{
			name: "trailing period and whitespace",
			raw:  "  a cat.  ",
			want: "a cat",
		},
		{
			name: "answer prefix",
			raw:  "Answer: surfing",
			want: "surfing",
		},
		{
			name: "the answer is prefix",
			raw:  "The answer is two",
			want: "two",
		},
		{
			name:     "echoed question",
			raw:      "What color is the sky? blue",
			question: "what color is the sky?",
			want:     "blue",
		},
		{
			name: "wrapping quotes",
			raw:  `"a red bicycle"`,
			want: "a red bicycle",
		},
		{
			name: "interior quotes preserved",
			raw:  `the sign says "stop" twice`,
			want: `the sign says "stop" twice`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanAnswer(tt.raw, tt.question))
		})
	}
}
