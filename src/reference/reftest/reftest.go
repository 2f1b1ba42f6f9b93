// Package reftest builds reference pages shaped like the S&P 500
// constituents list for tests.
package reftest

import (
	"fmt"
	"strings"
)

// Sectors are the eleven GICS sectors, sorted.
var Sectors = []string{
	"Communication Services",
	"Consumer Discretionary",
	"Consumer Staples",
	"Energy",
	"Financials",
	"Health Care",
	"Industrials",
	"Information Technology",
	"Materials",
	"Real Estate",
	"Utilities",
}

// Symbol is the ticker of row i.
func Symbol(i int) string {
	return fmt.Sprintf("T%03d", i)
}

// Sector is the sector of row i (round robin over Sectors).
func Sector(i int) string {
	return Sectors[i%len(Sectors)]
}

// Page renders an HTML page whose first table has n constituents, followed
// by a second unrelated table.
func Page(n int) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><title>List</title></head><body>`)
	sb.WriteString(`<table class="wikitable sortable" id="constituents"><tbody>`)
	sb.WriteString(`<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th><th>Headquarters Location</th></tr>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<tr><td><a href="/q/%[1]s">%[1]s</a></td><td>Company %[2]d<sup class="reference">[%[2]d]</sup></td><td>%[3]s</td><td>Sub %[2]d</td><td>City, State</td></tr>`,
			Symbol(i), i, Sector(i))
	}
	sb.WriteString(`</tbody></table>`)
	sb.WriteString(`<table><tr><th>Date</th><th>Added</th></tr><tr><td>2024-01-01</td><td>XYZ</td></tr></table>`)
	sb.WriteString(`</body></html>`)
	return sb.String()
}
