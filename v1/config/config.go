// Package config loads the library's per-package configurations from a
// single YAML file.
//
// Each package in this repository defines its own Config struct with yaml
// tags and env-driven defaults; this package binds them together so an
// application can be configured from one file:
//
//	logger:
//	  level: info
//	  service_name: image-search
//	metrics:
//	  address: ":9090"
//	dual_encoder:
//	  endpoint: http://inference:8080
//	  model: clip-vit-b-32
//	qdrant:
//	  endpoint: qdrant
//	  port: 6334
//
// Values absent from the file keep their zero values; packages apply their
// own defaults and env overrides in their NewConfig/Validate paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vantage-ml/multimodal/v1/dualencoder"
	"github.com/vantage-ml/multimodal/v1/embcache"
	"github.com/vantage-ml/multimodal/v1/events"
	"github.com/vantage-ml/multimodal/v1/imagestore"
	"github.com/vantage-ml/multimodal/v1/ingest"
	"github.com/vantage-ml/multimodal/v1/logger"
	"github.com/vantage-ml/multimodal/v1/metrics"
	"github.com/vantage-ml/multimodal/v1/qdrant"
	"github.com/vantage-ml/multimodal/v1/retrieval"
	"github.com/vantage-ml/multimodal/v1/tracer"
	"github.com/vantage-ml/multimodal/v1/vqa"
)

// File is the top-level YAML document binding every package configuration.
type File struct {
	Logger      logger.Config      `yaml:"logger"`
	Metrics     metrics.Config     `yaml:"metrics"`
	Tracer      tracer.Config      `yaml:"tracer"`
	DualEncoder dualencoder.Config `yaml:"dual_encoder"`
	VQA         vqa.Config         `yaml:"vqa"`
	Qdrant      qdrant.Config      `yaml:"qdrant"`
	ImageStore  imagestore.Config  `yaml:"image_store"`
	Cache       embcache.Config    `yaml:"embedding_cache"`
	Events      events.Config      `yaml:"events"`
	Ingest      ingest.Config      `yaml:"ingest"`
	Retrieval   retrieval.Config   `yaml:"retrieval"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &f, nil
}
