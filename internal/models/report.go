package models

import "time"

// ItemFailure records one skipped item.
type ItemFailure struct {
	Stage     string `json:"stage"`
	Kind      string `json:"kind"`
	Error     string `json:"error"`
	Page      string `json:"page,omitempty"`
	ProductID int    `json:"productId,omitempty"`
}

// EnrichSummary counts detail enrichment outcomes.
type EnrichSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// CategorySummary is one row of the per-category report table.
type CategorySummary struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	Products int    `json:"products"`
	Enriched int    `json:"enriched"`
}

// BuildReport summarizes a build run.
type BuildReport struct {
	StartedAt  time.Time         `json:"startedAt"`
	RunID      string            `json:"runId"`
	Pages      map[string]int    `json:"pages"`
	Categories []CategorySummary `json:"categories"`
	Failures   []ItemFailure     `json:"failures"`
	Enrich     EnrichSummary     `json:"enrich"`
	Products   int               `json:"products"`
	Duration   time.Duration     `json:"duration"`
}
