package reference

import (
	"sort"

	"index-dashboard/src/models"
)

// -----------------------------------------------------------------------------

// FilterBySectors returns the rows whose sector is in sectors, in table
// order. No sectors selected means no rows.
func FilterBySectors(table *models.MReferenceTable, sectors []string) *models.MReferenceTable {
	out := &models.MReferenceTable{}
	if table == nil {
		return out
	}
	out.Columns = table.Columns
	out.SourceURL = table.SourceURL
	out.LoadedAt = table.LoadedAt

	if len(sectors) == 0 {
		return out
	}

	wanted := make(map[string]struct{}, len(sectors))
	for _, s := range sectors {
		wanted[s] = struct{}{}
	}
	for _, row := range table.Rows {
		if _, ok := wanted[row.Sector]; ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// SectorOptions lists the distinct sectors, sorted.
func SectorOptions(table *models.MReferenceTable) []string {
	if table == nil {
		return nil
	}
	return sortedUnique(len(table.Rows), func(i int) string { return table.Rows[i].Sector })
}

// -----------------------------------------------------------------------------

// SymbolOptions lists the distinct symbols, sorted ascending.
func SymbolOptions(table *models.MReferenceTable) []string {
	if table == nil {
		return nil
	}
	return sortedUnique(len(table.Rows), func(i int) string { return table.Rows[i].Symbol })
}

// -----------------------------------------------------------------------------

// Restrict keeps the values that are also in allowed, preserving order and
// dropping duplicates.
func Restrict(values, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := set[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// -----------------------------------------------------------------------------

func sortedUnique(n int, at func(int) string) []string {
	set := make(map[string]struct{}, n)
	var out []string
	for i := 0; i < n; i++ {
		v := at(i)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
