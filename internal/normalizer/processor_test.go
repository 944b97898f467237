package normalizer

import (
	"errors"
	"testing"

	"yongpei/internal/config"
	"yongpei/internal/failure"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(config.IDStrategyVendor)
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(config.IDStrategySequence)

	catalog, err := p.Process([]byte(`{"B":[{"product":"9"}],"A":[{"product":"3"},{"product":"4"}]}`))
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(catalog.Categories) != 2 || catalog.Categories[0].Name != "B" || catalog.Categories[1].ID != 2 {
		t.Errorf("Categories = %+v", catalog.Categories)
	}

	if got := len(catalog.ProductsIn(2)); got != 2 {
		t.Errorf("ProductsIn(2) = %d products, want 2", got)
	}
}

func TestProcessor_Process_ValidationError(t *testing.T) {
	p := NewProcessor(config.IDStrategyVendor)

	result, err := p.Process([]byte(`{"A":"not a list"}`))
	if err == nil {
		t.Fatal("Process expected error for malformed catalog")
	}

	if result != nil {
		t.Error("Process expected nil result for invalid input")
	}

	if !errors.Is(err, failure.ErrDecode) {
		t.Errorf("error should classify as decode failure: %v", err)
	}
}
