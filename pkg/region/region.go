// Package region finds and replaces comment-delimited regions in HTML text.
//
// A region named "Specifications Content" looks like:
//
//	<!-- Specifications Content -->
//	...
//	<!-- End Specifications Content -->
package region

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrRegionNotFound is returned when a region's markers are absent.
var ErrRegionNotFound = errors.New("region not found")

// Region matches one named comment-delimited block.
type Region struct {
	pattern *regexp.Regexp
	name    string
}

// New compiles the matcher for the named region.
func New(name string) *Region {
	quoted := regexp.QuoteMeta(name)

	return &Region{
		name:    name,
		pattern: regexp.MustCompile(`(?s)(<!--\s*` + quoted + `\s*-->)(.*?)(<!--\s*End\s+` + quoted + `\s*-->)`),
	}
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Exists reports whether content contains the region.
func (r *Region) Exists(content string) bool {
	return r.pattern.MatchString(content)
}

// Replace swaps the body of the first occurrence for body, keeping the markers.
func (r *Region) Replace(content, body string) (string, error) {
	loc := r.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, fmt.Errorf("%w: %s", ErrRegionNotFound, r.name)
	}

	var sb strings.Builder

	sb.Grow(len(content) + len(body))
	sb.WriteString(content[:loc[3]])
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(content[loc[6]:])

	return sb.String(), nil
}
