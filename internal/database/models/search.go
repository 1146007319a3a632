package models

type SearchResult struct {
	Query string `json:"query"`
	Notes []Note `json:"notes"`
}
