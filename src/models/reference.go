package models

import "time"

// MReferenceRow describes one index constituent.
type MReferenceRow struct {
	Symbol   string            `json:"symbol"`
	Security string            `json:"security"`
	Sector   string            `json:"sector"`
	Cells    map[string]string `json:"cells"` // every column of the source row, keyed by header
}

// MReferenceTable is the parsed first table of the reference page.
// Rows keep the order of the source document.
type MReferenceTable struct {
	Columns   []string        `json:"columns"`
	Rows      []MReferenceRow `json:"rows"`
	SourceURL string          `json:"source_url"`
	LoadedAt  time.Time       `json:"loaded_at"`
}

// Dimensions returns (rows, columns) of the table.
func (t *MReferenceTable) Dimensions() (int, int) {
	if t == nil {
		return 0, 0
	}
	return len(t.Rows), len(t.Columns)
}
