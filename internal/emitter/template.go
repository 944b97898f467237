package emitter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"yongpei/internal/failure"
	"yongpei/pkg/region"
)

// SlotKind says how a slot's target is located and filled.
type SlotKind int

// Slot kinds. DOM kinds take a CSS selector and act on its first match;
// Literal and Region act on the serialized page.
const (
	SlotInner   SlotKind = iota // replace the element's children
	SlotOuter                   // replace the whole element
	SlotAppend                  // append to the element's children
	SlotText                    // replace the element's text
	SlotLiteral                 // replace the first occurrence of placeholder text
	SlotRegion                  // replace the body of a <!-- X --> ... <!-- End X --> region
)

func (k SlotKind) isDOM() bool {
	return k <= SlotText
}

// Slot is a named insertion point in a template.
type Slot struct {
	Name     string
	Target   string
	Kind     SlotKind
	Optional bool
}

// Fill maps slot names to rendered markup. Text slot values are plain text.
type Fill map[string]string

// ErrMissingSlot is returned by LoadTemplate when a required slot is absent.
var ErrMissingSlot = fmt.Errorf("%w: missing slot", failure.ErrTemplate)

// Template is an immutable page source with its slots resolved at load time.
type Template struct {
	present map[string]bool
	name    string
	src     string
	slots   []Slot
}

// LoadTemplate parses src and checks every slot. A missing optional slot is
// skipped at render time; a missing required slot fails the load.
func LoadTemplate(name, src string, slots []Slot) (*Template, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", failure.ErrTemplate, name, err)
	}

	t := &Template{
		name:    name,
		src:     src,
		slots:   slots,
		present: make(map[string]bool, len(slots)),
	}

	var missing []string

	for _, slot := range slots {
		var ok bool

		switch {
		case slot.Kind.isDOM():
			ok = doc.Find(slot.Target).Length() > 0
		case slot.Kind == SlotLiteral:
			ok = strings.Contains(src, slot.Target)
		case slot.Kind == SlotRegion:
			ok = region.New(slot.Target).Exists(src)
		}

		t.present[slot.Name] = ok

		if !ok && !slot.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", slot.Name, slot.Target))
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrMissingSlot, name, strings.Join(missing, ", "))
	}

	return t, nil
}

// Has reports whether the slot was found at load time.
func (t *Template) Has(slot string) bool {
	return t.present[slot]
}

// Render fills the slots named in fill and serializes the page. Slots absent
// from fill keep the template's markup. Each call parses the source afresh.
func (t *Template) Render(fill Fill) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.src))
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %w", failure.ErrTemplate, t.name, err)
	}

	for _, slot := range t.slots {
		value, ok := fill[slot.Name]
		if !ok || !t.present[slot.Name] || !slot.Kind.isDOM() {
			continue
		}

		sel := doc.Find(slot.Target).First()

		switch slot.Kind {
		case SlotInner:
			sel.SetHtml(value)
		case SlotOuter:
			sel.ReplaceWithHtml(value)
		case SlotAppend:
			sel.AppendHtml(value)
		case SlotText:
			sel.SetText(value)
		}
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: serialize %s: %w", failure.ErrTemplate, t.name, err)
	}

	for _, slot := range t.slots {
		value, ok := fill[slot.Name]
		if !ok || !t.present[slot.Name] {
			continue
		}

		switch slot.Kind {
		case SlotLiteral:
			out = strings.Replace(out, slot.Target, value, 1)
		case SlotRegion:
			// a DOM fill may have removed the region; leave the page as is then
			if replaced, err := region.New(slot.Target).Replace(out, value); err == nil {
				out = replaced
			}
		}
	}

	return out, nil
}
