package normalizer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"yongpei/internal/config"
	"yongpei/internal/failure"
)

const sampleCatalog = `{
  "B 飲水機": [
    {"product":"31","a_name":"熱交換飲水機","title":"飲水機","sub_title":"節能","imgSrc":"/img/31.jpg","price":"12,800","roomno":"HW-1","orders":"5"},
    {"product":"32","title":"冰溫飲水機","imgSrc":"/img/32.jpg","price":"9,800, "}
  ],
  "A 淨水器": [
    {"product":"7","a_name":"RO 逆滲透","imgSrc":"","price":"1,234, "}
  ]
}`

func TestTransformer_FirstSeenCategoryOrder(t *testing.T) {
	catalog, err := NewTransformer(config.IDStrategyVendor).Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if len(catalog.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(catalog.Categories))
	}

	if catalog.Categories[0].ID != 1 || catalog.Categories[0].Name != "B 飲水機" {
		t.Errorf("Categories[0] = %+v", catalog.Categories[0])
	}

	if catalog.Categories[1].ID != 2 || catalog.Categories[1].Name != "A 淨水器" {
		t.Errorf("Categories[1] = %+v", catalog.Categories[1])
	}
}

func TestTransformer_Fields(t *testing.T) {
	catalog, err := NewTransformer(config.IDStrategyVendor).Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	first := catalog.Products[0]
	if first.ID != 31 || first.VendorID != "31" {
		t.Errorf("id = %d/%s, want 31", first.ID, first.VendorID)
	}

	if first.Name != "熱交換飲水機" || first.Description != "節能" || first.Model != "HW-1" {
		t.Errorf("unexpected fields: %+v", first)
	}

	if first.Price != "12800" {
		t.Errorf("Price = %s, want 12800", first.Price)
	}

	second := catalog.Products[1]
	if second.Name != "冰溫飲水機" || second.Description != "冰溫飲水機" {
		t.Errorf("title fallback not applied: %+v", second)
	}

	if second.Price != "9800" {
		t.Errorf("Price = %s, want 9800", second.Price)
	}

	if len(catalog.Products[2].Images) != 0 {
		t.Errorf("empty imgSrc should give no images, got %v", catalog.Products[2].Images)
	}
}

func TestTransformer_SequenceIDs(t *testing.T) {
	catalog, err := NewTransformer(config.IDStrategySequence).Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	for i, p := range catalog.Products {
		if p.ID != i+1 {
			t.Errorf("Products[%d].ID = %d, want %d", i, p.ID, i+1)
		}
	}

	if catalog.Products[2].VendorID != "7" {
		t.Errorf("VendorID must be kept under sequence ids, got %q", catalog.Products[2].VendorID)
	}
}

func TestTransformer_ReferentialIntegrity(t *testing.T) {
	catalog, err := NewTransformer(config.IDStrategySequence).Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	for _, p := range catalog.Products {
		cat, ok := catalog.Category(p.Category.ID)
		if !ok {
			t.Errorf("product %d references missing category %d", p.ID, p.Category.ID)

			continue
		}

		if cat != p.Category {
			t.Errorf("product %d category = %+v, list has %+v", p.ID, p.Category, cat)
		}
	}
}

func TestTransformer_Deterministic(t *testing.T) {
	tr := NewTransformer(config.IDStrategySequence)

	first, err := tr.Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	second, err := tr.Transform([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Transform is not deterministic across calls")
	}
}

func TestTransformer_DuplicateVendorIDKeepsFirst(t *testing.T) {
	raw := `{"A":[{"product":"5","a_name":"x"}],"B":[{"product":"5","a_name":"y"}]}`

	catalog, err := NewTransformer(config.IDStrategyVendor).Transform([]byte(raw))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if len(catalog.Products) != 1 || catalog.Products[0].Category.Name != "A" {
		t.Errorf("unexpected products: %+v", catalog.Products)
	}

	if len(catalog.Categories) != 2 {
		t.Errorf("both categories should still be listed, got %v", catalog.Categories)
	}
}

func TestTransformer_InvalidVendorIDSkipped(t *testing.T) {
	raw := `{"立地式":[{"product":"101","a_name":"A"},{"product":"","a_name":"B"},{"product":"abc","a_name":"C"}],` +
		`"桌上型":[{"product":"103","a_name":"D"}]}`

	catalog, err := NewTransformer(config.IDStrategyVendor).Transform([]byte(raw))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if len(catalog.Products) != 2 || catalog.Products[0].ID != 101 || catalog.Products[1].ID != 103 {
		t.Errorf("unexpected products: %+v", catalog.Products)
	}

	if len(catalog.Categories) != 2 {
		t.Errorf("Categories = %+v", catalog.Categories)
	}

	if len(catalog.Skipped) != 2 {
		t.Fatalf("Expected 2 skipped records, got %+v", catalog.Skipped)
	}

	for _, skipped := range catalog.Skipped {
		if skipped.Stage != Stage || skipped.Kind != failure.KindDecode {
			t.Errorf("unexpected skipped record: %+v", skipped)
		}
	}

	if !strings.Contains(catalog.Skipped[0].Error, `立地式/"B"`) {
		t.Errorf("skipped error should name the record, got %q", catalog.Skipped[0].Error)
	}
}

func TestTransformer_Errors(t *testing.T) {
	_, err := NewTransformer("hash").Transform([]byte(`{}`))
	if !errors.Is(err, ErrUnknownIDStrategy) {
		t.Errorf("Transform() = %v, want ErrUnknownIDStrategy", err)
	}
}
