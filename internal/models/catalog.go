// Package models defines the catalog, detail and report structures shared by the build stages.
package models

// Category is a vendor product category with an id assigned in first-seen order.
type Category struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Product is a normalized catalog entry.
type Product struct {
	VendorID    string   `json:"vendorId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Model       string   `json:"model,omitempty"`
	Price       string   `json:"price,omitempty"`
	Orders      string   `json:"orders,omitempty"`
	Images      []string `json:"images"`
	Category    Category `json:"category"`
	ID          int      `json:"id"`
}

// Catalog is the output of normalization. Skipped lists records that could
// not become products.
type Catalog struct {
	Categories []Category    `json:"categories"`
	Products   []Product     `json:"products"`
	Skipped    []ItemFailure `json:"-"`
}

// ProductsIn returns the products of a category in catalog order.
func (c *Catalog) ProductsIn(categoryID int) []Product {
	var out []Product

	for _, p := range c.Products {
		if p.Category.ID == categoryID {
			out = append(out, p)
		}
	}

	return out
}

// Category looks up a category by id.
func (c *Catalog) Category(id int) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}

	return Category{}, false
}
