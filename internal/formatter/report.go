package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"yongpei/internal/models"
)

// FormatReport renders a build report as markdown.
func FormatReport(r *models.BuildReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Build %s\n\n", r.RunID)
	fmt.Fprintf(&sb, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Duration: %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "- Products: %d in %d categories\n", r.Products, len(r.Categories))
	fmt.Fprintf(&sb, "- Details: %d/%d enriched, %d failed\n", r.Enrich.Succeeded, r.Enrich.Total, r.Enrich.Failed)
	fmt.Fprintf(&sb, "- Pages: %s\n", formatPages(r.Pages))

	sb.WriteString("\n## Categories\n\n")
	sb.WriteString("| ID | Category | Products | Enriched |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")

	for _, c := range r.Categories {
		fmt.Fprintf(&sb, "| %d | %s | %d | %d |\n", c.ID, EscapeCell(c.Name), c.Products, c.Enriched)
	}

	if len(r.Failures) > 0 {
		sb.WriteString("\n## Failures\n\n")
		sb.WriteString("| Stage | Kind | Page | Product | Error |\n")
		sb.WriteString("| --- | --- | --- | --- | --- |\n")

		for _, f := range r.Failures {
			product := ""
			if f.ProductID > 0 {
				product = strconv.Itoa(f.ProductID)
			}

			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				f.Stage, f.Kind, EscapeCell(f.Page), product, EscapeCell(f.Error))
		}
	}

	return FormatMarkdown(sb.String())
}

func formatPages(pages map[string]int) string {
	if len(pages) == 0 {
		return "none"
	}

	kinds := make([]string, 0, len(pages))
	for kind := range pages {
		kinds = append(kinds, kind)
	}

	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", kind, pages[kind]))
	}

	return strings.Join(parts, ", ")
}
