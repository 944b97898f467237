package formatter

import (
	"strings"
	"testing"
	"time"

	"yongpei/internal/models"
)

func TestFormatReport(t *testing.T) {
	report := &models.BuildReport{
		RunID:     "run-1",
		StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Products:  3,
		Enrich:    models.EnrichSummary{Total: 3, Succeeded: 2, Failed: 1},
		Pages:     map[string]int{"product": 3, "home": 1},
		Categories: []models.CategorySummary{
			{ID: 1, Name: "立地式", Products: 2, Enriched: 2},
			{ID: 2, Name: "RO", Products: 1, Enriched: 0},
		},
		Failures: []models.ItemFailure{
			{Stage: "enrich", Kind: "fetch", ProductID: 7, Error: "status 500"},
		},
	}

	got := FormatReport(report)

	for _, want := range []string{
		"# Build run-1",
		"- Started: 2025-01-02T03:04:05Z",
		"- Duration: 1.5s",
		"- Details: 2/3 enriched, 1 failed",
		"- Pages: home 1, product 3",
		"| 1   | 立地式   | 2        | 2        |",
		"| 2   | RO       | 1        | 0        |",
		"| enrich | fetch |      | 7       | status 500 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestFormatReport_NoFailures(t *testing.T) {
	got := FormatReport(&models.BuildReport{RunID: "x"})

	if strings.Contains(got, "## Failures") {
		t.Errorf("unexpected failures section:\n%s", got)
	}

	if !strings.Contains(got, "- Pages: none") {
		t.Errorf("missing empty pages line:\n%s", got)
	}
}
