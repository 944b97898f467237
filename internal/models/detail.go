package models

// Detail is the enrichment payload of the vendor detail endpoint.
type Detail struct {
	VendorID string   `json:"product"`
	Title    string   `json:"title"`
	AName    string   `json:"a_name"`
	Price    string   `json:"price"`
	RoomNo   string   `json:"roomno"`
	Contents string   `json:"contents"`
	Orders   string   `json:"orders,omitempty"`
	Images   []string `json:"imgSrc"`
	ID       int      `json:"id"`
}

// DisplayName prefers the detail's a_name over the listing name.
func (d *Detail) DisplayName(fallback string) string {
	if d != nil && d.AName != "" {
		return d.AName
	}

	return fallback
}
