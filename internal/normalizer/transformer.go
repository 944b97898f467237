package normalizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"yongpei/internal/config"
	"yongpei/internal/failure"
	"yongpei/internal/models"
	"yongpei/internal/vendor"
	"yongpei/pkg/utils"
)

// Stage labels item failures raised while normalizing.
const Stage = "normalize"

// Transformer errors.
var (
	ErrUnknownIDStrategy = errors.New("unknown id strategy")
	ErrInvalidVendorID   = fmt.Errorf("%w: vendor product id is not a positive integer", failure.ErrDecode)
)

// categoryIndex assigns category ids in first-seen order.
type categoryIndex struct {
	ids   map[string]int
	order []models.Category
}

func newCategoryIndex() *categoryIndex {
	return &categoryIndex{ids: make(map[string]int)}
}

func (ix *categoryIndex) resolve(name string) models.Category {
	if id, ok := ix.ids[name]; ok {
		return models.Category{ID: id, Name: name}
	}

	cat := models.Category{ID: len(ix.order) + 1, Name: name}
	ix.ids[name] = cat.ID
	ix.order = append(ix.order, cat)

	return cat
}

// Transformer converts a validated raw catalog into the normalized model.
type Transformer struct {
	strategy string
}

// NewTransformer creates a transformer using the given id strategy.
func NewTransformer(strategy string) *Transformer {
	return &Transformer{strategy: strategy}
}

// Transform walks the raw mapping in document order. It holds no state
// between calls, so the same input always yields the same ids. A record
// without a usable vendor id is skipped and listed in Catalog.Skipped.
func (t *Transformer) Transform(raw []byte) (*models.Catalog, error) {
	if t.strategy != config.IDStrategyVendor && t.strategy != config.IDStrategySequence {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIDStrategy, t.strategy)
	}

	categories := newCategoryIndex()
	catalog := &models.Catalog{Products: []models.Product{}}
	seen := make(map[int]bool)

	gjson.ParseBytes(raw).ForEach(func(key, records gjson.Result) bool {
		category := categories.resolve(key.String())

		records.ForEach(func(_, record gjson.Result) bool {
			product := t.product(record, category)

			id, err := t.productID(product.VendorID, len(catalog.Products)+1)
			if err != nil {
				catalog.Skipped = append(catalog.Skipped, models.ItemFailure{
					Stage: Stage,
					Kind:  failure.Kind(err),
					Error: fmt.Sprintf("%s/%q: %v", category.Name, product.Name, err),
				})

				return true
			}

			product.ID = id

			// a vendor id listed under two categories keeps its first placement
			if seen[product.ID] {
				return true
			}

			seen[product.ID] = true
			catalog.Products = append(catalog.Products, product)

			return true
		})

		return true
	})

	catalog.Categories = categories.order
	if catalog.Categories == nil {
		catalog.Categories = []models.Category{}
	}

	return catalog, nil
}

func (t *Transformer) product(record gjson.Result, category models.Category) models.Product {
	field := func(name string) string {
		return strings.TrimSpace(record.Get(name).String())
	}

	p := models.Product{
		VendorID:    field("product"),
		Name:        utils.FirstNonEmpty(field("a_name"), field("title")),
		Description: utils.FirstNonEmpty(field("sub_title"), field("title")),
		Model:       field("roomno"),
		Price:       vendor.CleanPrice(record.Get("price").String()),
		Orders:      field("orders"),
		Images:      []string{},
		Category:    category,
	}

	if img := field("imgSrc"); img != "" {
		p.Images = append(p.Images, img)
	}

	return p
}

func (t *Transformer) productID(vendorID string, position int) (int, error) {
	if t.strategy == config.IDStrategySequence {
		return position, nil
	}

	id, err := strconv.Atoi(vendorID)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVendorID, vendorID)
	}

	return id, nil
}
