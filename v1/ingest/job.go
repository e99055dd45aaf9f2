package ingest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/vantage-ml/multimodal/v1/retrieval"
)

// Job is the wire format of one index request. Producers publish it as JSON
// with the image bytes base64-encoded.
type Job struct {
	// ImageBase64 is the standard-encoded image payload.
	ImageBase64 string `json:"image_base64"`

	// Caption optionally describes the image.
	Caption string `json:"caption,omitempty"`

	// Label optionally tags the image with a class name.
	Label string `json:"label,omitempty"`
}

// decodeJob parses a delivery body into an index request. Any failure here
// is permanent: redelivering the same bytes can never succeed.
func decodeJob(body []byte) (retrieval.IndexRequest, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return retrieval.IndexRequest{}, fmt.Errorf("ingest: parse job: %w", err)
	}
	if job.ImageBase64 == "" {
		return retrieval.IndexRequest{}, fmt.Errorf("ingest: job has no image payload")
	}

	data, err := base64.StdEncoding.DecodeString(job.ImageBase64)
	if err != nil {
		return retrieval.IndexRequest{}, fmt.Errorf("ingest: decode image payload: %w", err)
	}

	return retrieval.IndexRequest{
		Data:    data,
		Caption: job.Caption,
		Label:   job.Label,
	}, nil
}
