// Package normalizer converts the vendor's category → products mapping into
// flat category and product lists.
package normalizer

import (
	"fmt"

	"yongpei/internal/models"
)

// Processor validates and transforms raw catalogs.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a processor assigning product ids with strategy
// (config.IDStrategyVendor or config.IDStrategySequence).
func NewProcessor(strategy string) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(strategy),
	}
}

// Process transforms a raw catalog body into a normalized catalog.
func (p *Processor) Process(raw []byte) (*models.Catalog, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(raw); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	catalog, err := p.transformer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	return catalog, nil
}
