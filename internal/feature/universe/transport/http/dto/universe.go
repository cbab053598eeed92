// Package dto defines data transfer objects for the universe HTTP API.
package dto

// BenchmarkItem represents a benchmark in the API response.
type BenchmarkItem struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SymbolItem represents a symbol in the API response.
// It contains only the public-facing fields needed by clients.
type SymbolItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
