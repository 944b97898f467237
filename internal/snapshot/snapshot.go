// Package snapshot saves fetched vendor data to disk and serves it back so a
// build can run without network access.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"yongpei/internal/failure"
	"yongpei/internal/models"
)

// Snapshot file names.
const (
	CatalogFile   = "products.json"
	ProcessedFile = "processed-products.json"
	DetailsFile   = "product-details.json"
)

// ErrDetailNotFound is returned when the snapshot has no detail for a vendor id.
var ErrDetailNotFound = errors.New("detail not in snapshot")

// Save writes the raw catalog, the normalized catalog and the decoded details into dir.
func Save(dir string, raw []byte, catalog *models.Catalog, details []*models.Detail) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create snapshot dir: %w", failure.ErrFilesystem, err)
	}

	// Indent keeps the vendor's key order, which fixes category ids.
	var rawIndented bytes.Buffer
	if err := json.Indent(&rawIndented, raw, "", "  "); err != nil {
		return fmt.Errorf("%w: indent raw catalog: %w", failure.ErrDecode, err)
	}

	if err := writeFile(filepath.Join(dir, CatalogFile), rawIndented.Bytes()); err != nil {
		return err
	}

	processed := map[string]interface{}{
		"products":   catalog.Products,
		"categories": catalog.Categories,
	}

	if err := writeJSON(filepath.Join(dir, ProcessedFile), processed); err != nil {
		return err
	}

	sorted := make([]*models.Detail, 0, len(details))
	for _, d := range details {
		if d != nil {
			sorted = append(sorted, d)
		}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	return writeJSON(filepath.Join(dir, DetailsFile), sorted)
}

func writeJSON(path string, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return writeFile(path, jsonData)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w: failed to write file: %w", failure.ErrFilesystem, err)
	}

	return nil
}

// Store serves a saved snapshot as a catalog source and detail fetcher.
type Store struct {
	details map[string]*models.Detail
	raw     []byte
}

// Open loads a snapshot written by Save. The details file is optional.
func Open(dir string) (*Store, error) {
	raw, err := os.ReadFile(filepath.Join(dir, CatalogFile))
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot catalog: %w", failure.ErrFilesystem, err)
	}

	store := &Store{raw: raw, details: make(map[string]*models.Detail)}

	data, err := os.ReadFile(filepath.Join(dir, DetailsFile))
	if errors.Is(err, os.ErrNotExist) {
		return store, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot details: %w", failure.ErrFilesystem, err)
	}

	var details []*models.Detail
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("%w: parse snapshot details: %w", failure.ErrDecode, err)
	}

	for _, d := range details {
		if d != nil && d.VendorID != "" {
			store.details[d.VendorID] = d
		}
	}

	return store, nil
}

// FetchCatalog returns the saved raw catalog.
func (s *Store) FetchCatalog(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return bytes.Clone(s.raw), nil
}

// FetchDetail returns a copy of the saved detail for vendorID.
func (s *Store) FetchDetail(ctx context.Context, vendorID string) (*models.Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, ok := s.details[vendorID]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", failure.ErrFetch, ErrDetailNotFound, vendorID)
	}

	detail := *d
	detail.Images = append([]string(nil), d.Images...)

	return &detail, nil
}

// Len returns the number of saved details.
func (s *Store) Len() int {
	return len(s.details)
}
