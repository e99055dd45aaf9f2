package retrieval

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults applied when the corresponding config field is zero.
const (
	DefaultCollection     = "images"
	DefaultVectorSize     = 512
	DefaultTopK           = 5
	DefaultPromptTemplate = "a photo of a %s"
)

// Config holds tunables for the retrieval service.
type Config struct {
	// Collection is the vector database collection holding image embeddings.
	Collection string `yaml:"collection" envconfig:"RETRIEVAL_COLLECTION"`

	// VectorSize is the embedding dimension of the configured checkpoint
	// (512 for clip-vit-base-patch32).
	VectorSize uint64 `yaml:"vector_size" envconfig:"RETRIEVAL_VECTOR_SIZE"`

	// TopK is the default result count for searches that do not specify one.
	TopK int `yaml:"top_k" envconfig:"RETRIEVAL_TOP_K"`

	// PromptTemplate wraps bare class labels before text embedding during
	// classification. CLIP-family models score full sentences better than
	// single words.
	PromptTemplate string `yaml:"prompt_template" envconfig:"RETRIEVAL_PROMPT_TEMPLATE"`
}

// NewConfig reads the retrieval configuration from environment variables.
func NewConfig() *Config {
	vectorSize := uint64(0)
	if v := os.Getenv("RETRIEVAL_VECTOR_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			vectorSize = n
		}
	}

	topK := 0
	if v := os.Getenv("RETRIEVAL_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topK = n
		}
	}

	return &Config{
		Collection:     os.Getenv("RETRIEVAL_COLLECTION"),
		VectorSize:     vectorSize,
		TopK:           topK,
		PromptTemplate: os.Getenv("RETRIEVAL_PROMPT_TEMPLATE"),
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.TopK < 0 {
		return fmt.Errorf("retrieval: top_k must not be negative")
	}
	return nil
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (c *Config) withDefaults() Config {
	out := *c
	if out.Collection == "" {
		out.Collection = DefaultCollection
	}
	if out.VectorSize == 0 {
		out.VectorSize = DefaultVectorSize
	}
	if out.TopK == 0 {
		out.TopK = DefaultTopK
	}
	if out.PromptTemplate == "" {
		out.PromptTemplate = DefaultPromptTemplate
	}
	return out
}
