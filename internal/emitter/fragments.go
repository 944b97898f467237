package emitter

import (
	"bytes"
	"fmt"
	"html/template"

	"yongpei/internal/failure"
)

type slideView struct {
	Href        string
	Image       string
	Name        string
	Description string
	Delay       string
}

type categoryRowView struct {
	Name     string
	SliderID string
	Slides   []slideView
	ID       int
}

type cardView struct {
	Href        string
	Image       string
	Name        string
	Description string
}

type galleryView struct {
	Name   string
	Main   string
	Images []string
}

type entryView struct {
	Title       string
	Description string
}

type linkView struct {
	Href  string
	Label string
}

type dropdownGroupView struct {
	Name  string
	More  string
	Links []linkView
}

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
{{define "home"}}{{range .}}
<div class="category-row" id="category-{{.ID}}">
  <h2 class="category-title">{{.Name}}</h2>
  <div class="slider-container">
    <button id="nav-{{.SliderID}}-left" class="nav-button left" onclick="scrollSlider('{{.SliderID}}', -1)">&#10094;</button>
    <div class="slider" id="{{.SliderID}}">{{range .Slides}}
      <div class="slide">
        <a href="{{.Href}}" class="wow fadeInUp" data-wow-delay="{{.Delay}}">{{if .Image}}
          <img src="{{.Image}}" alt="{{.Name}}" class="img-fluid mb-3">{{end}}
          <div class="product-description">
            <h5 class="product-title">{{.Name}}</h5>
            <p class="product-description-text">{{.Description}}</p>
          </div>
        </a>
      </div>{{end}}
    </div>
    <button id="nav-{{.SliderID}}-right" class="nav-button right" onclick="scrollSlider('{{.SliderID}}', 1)">&#10095;</button>
  </div>
</div>{{end}}
{{end}}

{{define "cards"}}{{range .}}
<div class="col-6 col-md-3 wow fadeIn" data-wow-delay="0.1s">
  <div class="bg-light text-center p-3 product-card">{{if .Image}}
    <img class="img-fluid mb-3" src="{{.Image}}" alt="{{.Name}}" style="height: 100px; object-fit: contain;">{{end}}
    <h5 class="mb-1 product-title">{{.Name}}</h5>
    <p class="text-muted mb-2 truncate-2">{{.Description}}</p>
    <a class="btn btn-sm btn-primary" href="{{.Href}}">查看細節</a>
  </div>
</div>{{end}}
{{end}}

{{define "gallery"}}
<div class="product-gallery">
  <div class="gallery-main mb-3">
    <img id="mainImage"{{with .Main}} src="{{.}}"{{end}} alt="{{.Name}} - Main Image" class="img-fluid">
  </div>
  <div class="gallery-thumbs-container">
    <button class="nav-btn prev" onclick="scrollGallery(-1)"><i class="bi bi-chevron-left"></i></button>
    <div class="gallery-thumbs">
      <div class="thumb-container" id="thumbContainer">{{range $i, $img := .Images}}
        <div class="thumb{{if eq $i 0}} active{{end}}" onclick="selectImage(this)">
          <img src="{{$img}}" alt="{{$.Name}} - Thumbnail {{inc $i}}">
        </div>{{end}}
      </div>
    </div>
    <button class="nav-btn next" onclick="scrollGallery(1)"><i class="bi bi-chevron-right"></i></button>
  </div>
</div>
{{end}}

{{define "features"}}{{range .}}
<div class="d-flex mb-4">
  <div class="flex-shrink-0 btn-square bg-primary rounded-circle">
    <i class="fa fa-check text-white"></i>
  </div>
  <div class="ms-4">
    <h5>{{.Title}}</h5>
    <p class="mb-0">{{.Description}}</p>
  </div>
</div>{{end}}
{{end}}

{{define "specs"}}{{range .}}
<div class="col-sm-6 mb-2">
  <h5>{{.Title}}</h5>
  <p class="mb-0">{{.Description}}</p>
</div>{{end}}
{{end}}

{{define "dropdown"}}{{range .}}
      <div class="dropdown-header">{{.Name}}</div>{{range .Links}}
      <a href="{{.Href}}" class="dropdown-item">{{.Label}}</a>{{end}}{{with .More}}
      <a href="{{.}}" class="dropdown-item">更多...</a>{{end}}{{end}}
{{end}}
`))

func renderFragment(name string, data any) (string, error) {
	var buf bytes.Buffer

	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: render %s fragment: %w", failure.ErrTemplate, name, err)
	}

	return buf.String(), nil
}
