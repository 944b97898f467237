package emitter

import (
	"fmt"
	"os"
	"regexp"

	"yongpei/internal/config"
	"yongpei/internal/failure"
)

// Slot names shared by the page templates.
const (
	slotRows        = "rows"
	slotScript      = "script"
	slotStyles      = "styles"
	slotCards       = "cards"
	slotTitle       = "title"
	slotHeading     = "heading"
	slotGallery     = "gallery"
	slotFeatures    = "features"
	slotContents    = "contents"
	slotName        = "name"
	slotDescription = "description"
	slotSpecs       = "specs"
)

const (
	namePlaceholder        = "產品名稱"
	descriptionPlaceholder = "產品詳細描述將在這裡顯示。這裡可以包含產品的主要特點、用途和優勢等信息。"
	specsRegion            = "Specifications Content"
)

var homeSlots = []Slot{
	{Name: slotRows, Target: "#products-placeholder", Kind: SlotInner},
	{Name: slotScript, Target: "body", Kind: SlotAppend},
}

var categorySlots = []Slot{
	{Name: slotCards, Target: "#products-container", Kind: SlotInner},
	{Name: slotTitle, Target: "title", Kind: SlotText, Optional: true},
	{Name: slotHeading, Target: "#category-name", Kind: SlotText, Optional: true},
}

// DOM slots fill first, so the title is set before the name literal is replaced.
var productSlots = []Slot{
	{Name: slotTitle, Target: "title", Kind: SlotText, Optional: true},
	{Name: slotGallery, Target: ".product-gallery", Kind: SlotOuter, Optional: true},
	{Name: slotStyles, Target: "head", Kind: SlotAppend},
	{Name: slotScript, Target: "body", Kind: SlotAppend},
	{Name: slotFeatures, Target: "#features-container", Kind: SlotInner},
	{Name: slotContents, Target: "#product-contents", Kind: SlotInner, Optional: true},
	{Name: slotName, Target: namePlaceholder, Kind: SlotLiteral, Optional: true},
	{Name: slotDescription, Target: descriptionPlaceholder, Kind: SlotLiteral, Optional: true},
	{Name: slotSpecs, Target: specsRegion, Kind: SlotRegion, Optional: true},
}

var (
	dropdownOpen = regexp.MustCompile(`<div id=['"]category-dropdown-content['"][^>]*>`)
	divTag       = regexp.MustCompile(`(?i)<(/?)div\b[^>]*>`)
)

// dropdownSpan returns the offsets of the category dropdown's content in the
// navigation component: from the end of its opening tag to its matching
// </div>, counting nested divs.
func dropdownSpan(src string) (start, end int, ok bool) {
	open := dropdownOpen.FindStringIndex(src)
	if open == nil {
		return 0, 0, false
	}

	depth := 1

	for _, m := range divTag.FindAllStringSubmatchIndex(src[open[1]:], -1) {
		if m[3] > m[2] {
			depth--
		} else {
			depth++
		}

		if depth == 0 {
			return open[1], open[1] + m[0], true
		}
	}

	return 0, 0, false
}

// Site holds every template of one site, loaded once per build.
type Site struct {
	Home           *Template
	Category       *Template
	Product        *Template
	components     string
	componentsPath string
}

// LoadSite reads and checks the templates under cfg.Root.
func LoadSite(cfg config.SiteConfig) (*Site, error) {
	site := &Site{componentsPath: cfg.Templates.Components}

	var err error

	if site.Home, err = loadTemplate(cfg, cfg.Templates.Index, homeSlots); err != nil {
		return nil, err
	}

	if site.Category, err = loadTemplate(cfg, cfg.Templates.Category, categorySlots); err != nil {
		return nil, err
	}

	if site.Product, err = loadTemplate(cfg, cfg.Templates.Product, productSlots); err != nil {
		return nil, err
	}

	if site.components, err = readSource(cfg, cfg.Templates.Components); err != nil {
		return nil, err
	}

	if _, _, ok := dropdownSpan(site.components); !ok {
		return nil, fmt.Errorf("%w in %s: category-dropdown-content", ErrMissingSlot, cfg.Templates.Components)
	}

	return site, nil
}

func loadTemplate(cfg config.SiteConfig, name string, slots []Slot) (*Template, error) {
	src, err := readSource(cfg, name)
	if err != nil {
		return nil, err
	}

	return LoadTemplate(name, src, slots)
}

func readSource(cfg config.SiteConfig, name string) (string, error) {
	data, err := os.ReadFile(cfg.Path(name))
	if err != nil {
		return "", fmt.Errorf("%w: read template: %w", failure.ErrFilesystem, err)
	}

	return string(data), nil
}
