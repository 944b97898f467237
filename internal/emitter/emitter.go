// Package emitter renders the catalog into static pages by filling named
// slots of the site's HTML templates.
package emitter

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"yongpei/internal/config"
	"yongpei/internal/failure"
	"yongpei/internal/logger"
	"yongpei/internal/metrics"
	"yongpei/internal/models"
	"yongpei/internal/vendor"
	"yongpei/pkg/utils"
)

// Page kinds used in reports and metrics.
const (
	KindHome       = "home"
	KindComponents = "components"
	KindCategory   = "category"
	KindProduct    = "product"
)

// Stage is the report label for page failures.
const Stage = "emit"

const cardDescriptionRunes = 100

// Report counts written pages per kind and lists skipped pages.
type Report struct {
	Pages    map[string]int
	Failures []models.ItemFailure
}

// Written returns the total number of files written.
func (r *Report) Written() int {
	total := 0
	for _, n := range r.Pages {
		total += n
	}

	return total
}

// Emitter writes pages for one build.
type Emitter struct {
	site          *Site
	log           *logger.Logger
	metrics       *metrics.Recorder
	outDir        string
	siteName      string
	dropdownLimit int
}

// Option customizes an Emitter.
type Option func(*Emitter)

// WithLogger sets the logger used for skipped pages.
func WithLogger(log *logger.Logger) Option {
	return func(e *Emitter) {
		e.log = log
	}
}

// WithMetrics counts written and failed pages on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Emitter) {
		e.metrics = r
	}
}

// New creates an emitter writing into cfg.BuildDir.
func New(site *Site, cfg config.SiteConfig, opts ...Option) *Emitter {
	e := &Emitter{
		site:          site,
		outDir:        cfg.BuildDir,
		siteName:      cfg.Name,
		dropdownLimit: cfg.DropdownLimit,
		log:           logger.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Emit writes the home page and navigation component, then one page per
// category and per product. The first two are required and abort the run on
// failure; a failed category or product page is recorded and skipped.
func (e *Emitter) Emit(ctx context.Context, catalog *models.Catalog, details map[int]*models.Detail) (*Report, error) {
	report := &Report{Pages: make(map[string]int)}

	home, err := e.RenderHome(catalog)
	if err != nil {
		return report, fmt.Errorf("home page: %w", err)
	}

	if err := e.write(KindHome, "index.html", home, report); err != nil {
		return report, err
	}

	components, err := e.RenderComponents(catalog)
	if err != nil {
		return report, fmt.Errorf("components: %w", err)
	}

	if err := e.write(KindComponents, e.site.componentsPath, components, report); err != nil {
		return report, err
	}

	for _, category := range catalog.Categories {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := CategoryFile(category.ID)

		page, err := e.RenderCategory(catalog, category)
		if err == nil {
			err = e.write(KindCategory, name, page, report)
		}

		if err != nil {
			e.skip(report, KindCategory, name, 0, err)
		}
	}

	for _, product := range catalog.Products {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := ProductFile(product.ID)

		page, err := e.RenderProduct(product, details[product.ID])
		if err == nil {
			err = e.write(KindProduct, name, page, report)
		}

		if err != nil {
			e.skip(report, KindProduct, name, product.ID, err)
		}
	}

	return report, nil
}

// RenderHome fills the home page with one slider row per category.
func (e *Emitter) RenderHome(catalog *models.Catalog) (string, error) {
	rows := make([]categoryRowView, 0, len(catalog.Categories))

	for i, category := range catalog.Categories {
		row := categoryRowView{
			ID:       category.ID,
			Name:     category.Name,
			SliderID: "slider-" + strconv.Itoa(i),
		}

		for j, p := range catalog.ProductsIn(category.ID) {
			row.Slides = append(row.Slides, slideView{
				Href:        ProductFile(p.ID),
				Image:       firstImage(p.Images),
				Name:        p.Name,
				Description: p.Description,
				Delay:       fmt.Sprintf("%.1fs", float64(j)/10),
			})
		}

		rows = append(rows, row)
	}

	markup, err := renderFragment("home", rows)
	if err != nil {
		return "", err
	}

	return e.site.Home.Render(Fill{
		slotRows:   markup,
		slotScript: sliderScript,
	})
}

// RenderCategory fills the category template with the category's product cards.
func (e *Emitter) RenderCategory(catalog *models.Catalog, category models.Category) (string, error) {
	products := catalog.ProductsIn(category.ID)
	cards := make([]cardView, 0, len(products))

	for _, p := range products {
		cards = append(cards, cardView{
			Href:        ProductFile(p.ID),
			Image:       firstImage(p.Images),
			Name:        p.Name,
			Description: utils.TruncateRunes(p.Description, cardDescriptionRunes),
		})
	}

	markup, err := renderFragment("cards", cards)
	if err != nil {
		return "", err
	}

	return e.site.Category.Render(Fill{
		slotCards:   markup,
		slotTitle:   e.siteName + " - " + category.Name,
		slotHeading: category.Name,
	})
}

// RenderProduct fills the product template. detail may be nil.
func (e *Emitter) RenderProduct(product models.Product, detail *models.Detail) (string, error) {
	view := newProductView(product, detail)

	gallery, err := renderFragment("gallery", galleryView{
		Name:   view.Name,
		Main:   firstImage(view.Images),
		Images: view.Images,
	})
	if err != nil {
		return "", err
	}

	features, err := renderFragment("features", view.features())
	if err != nil {
		return "", err
	}

	specs, err := renderFragment("specs", view.specifications())
	if err != nil {
		return "", err
	}

	fill := Fill{
		slotTitle:       e.siteName + " - " + view.Name,
		slotGallery:     gallery,
		slotStyles:      galleryStyles,
		slotScript:      galleryScript,
		slotFeatures:    features,
		slotName:        template.HTMLEscapeString(view.Name),
		slotDescription: template.HTMLEscapeString(view.Description),
		slotSpecs:       specs,
	}

	if view.Contents != "" {
		fill[slotContents] = view.Contents
	}

	return e.site.Product.Render(fill)
}

// RenderComponents rewrites the navigation dropdown: a header per category
// followed by its first products and a link to the category page when more exist.
func (e *Emitter) RenderComponents(catalog *models.Catalog) (string, error) {
	groups := make([]dropdownGroupView, 0, len(catalog.Categories))

	for _, category := range catalog.Categories {
		products := catalog.ProductsIn(category.ID)
		group := dropdownGroupView{Name: category.Name}

		if len(products) > e.dropdownLimit {
			products = products[:e.dropdownLimit]
			group.More = CategoryFile(category.ID)
		}

		for _, p := range products {
			group.Links = append(group.Links, linkView{Href: ProductFile(p.ID), Label: p.Name})
		}

		groups = append(groups, group)
	}

	markup, err := renderFragment("dropdown", groups)
	if err != nil {
		return "", err
	}

	src := e.site.components

	start, end, ok := dropdownSpan(src)
	if !ok {
		return "", fmt.Errorf("%w: category-dropdown-content", ErrMissingSlot)
	}

	return src[:start] + markup + src[end:], nil
}

func (e *Emitter) write(kind, name, content string, report *Report) error {
	path := filepath.Join(e.outDir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", failure.ErrFilesystem, name, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", failure.ErrFilesystem, name, err)
	}

	report.Pages[kind]++
	e.metrics.PageWritten(kind)
	e.log.Debug("Page written", "kind", kind, "file", name)

	return nil
}

func (e *Emitter) skip(report *Report, kind, name string, productID int, err error) {
	report.Failures = append(report.Failures, models.ItemFailure{
		Stage:     Stage,
		Kind:      failure.Kind(err),
		Error:     err.Error(),
		Page:      name,
		ProductID: productID,
	})
	e.metrics.PageFailed(kind)
	e.log.Warn("Skipping page", "file", name, "kind", failure.Kind(err), "error", err)
}

// CategoryFile is the output file name of a category page.
func CategoryFile(id int) string {
	return "category-" + strconv.Itoa(id) + ".html"
}

// ProductFile is the output file name of a product page.
func ProductFile(id int) string {
	return "product-" + strconv.Itoa(id) + ".html"
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}

	return images[0]
}

// productView merges listing and detail fields for a product page.
type productView struct {
	Name        string
	Description string
	Model       string
	Price       string
	Orders      string
	Title       string
	Contents    string
	Images      []string
}

func newProductView(p models.Product, d *models.Detail) productView {
	view := productView{
		Name:        p.Name,
		Description: p.Description,
		Model:       p.Model,
		Price:       p.Price,
		Orders:      p.Orders,
	}

	images := p.Images

	if d != nil {
		view.Name = d.DisplayName(p.Name)
		view.Description = utils.FirstNonEmpty(p.Description, d.Title)
		view.Model = utils.FirstNonEmpty(d.RoomNo, p.Model)
		view.Price = utils.FirstNonEmpty(d.Price, p.Price)
		view.Orders = utils.FirstNonEmpty(d.Orders, p.Orders)
		view.Title = d.Title
		view.Contents = d.Contents
		images = append(append([]string{}, p.Images...), d.Images...)
	}

	view.Images = dedupe(images)

	return view
}

func (v productView) features() []entryView {
	var out []entryView

	if v.Model != "" {
		out = append(out, entryView{Title: "型號", Description: v.Model})
	}

	if price := vendor.FormatPrice(v.Price); price != "" {
		out = append(out, entryView{Title: "價格", Description: price})
	}

	return out
}

func (v productView) specifications() []entryView {
	var out []entryView

	if v.Orders != "" {
		out = append(out, entryView{Title: "訂單數", Description: v.Orders + " 筆"})
	}

	if v.Title != "" && v.Title != v.Name {
		out = append(out, entryView{Title: "原廠標題", Description: v.Title})
	}

	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))

	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}

		seen[item] = true
		out = append(out, item)
	}

	return out
}
