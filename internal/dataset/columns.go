package dataset

import (
	"errors"
	"strings"
)

// ErrColumnsNotResolved is returned when no header matches any price or
// size alias; the caller must skip the whole dataset.
var ErrColumnsNotResolved = errors.New("could not resolve price/size columns")

// Alias priority order is significant and must not be reordered: some
// tables carry several plausible columns (e.g. both price_pkr and a
// formatted price string) and the first alias present wins.
var (
	priceAliases = []string{"price_pkr", "price", "asking_price", "cost"}
	sizeAliases  = []string{"area_sqyd", "size_sq_yd", "size", "area_sqm", "area"}
)

// Columns holds the resolved source columns of a snapshot table.
type Columns struct {
	PriceName  string
	PriceIndex int
	SizeName   string
	SizeIndex  int

	// Optional free-text columns used only for classification; index
	// is -1 when absent.
	TitleIndex       int
	DescriptionIndex int
}

// NormalizeColumn lowercases a header and replaces spaces with
// underscores, so "Price (PKR)" and "price_(pkr)" compare equal.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// ResolveColumns maps a header row to canonical price and size columns.
// Exact alias matches are tried in priority order first; failing that,
// the first column (in table order) whose normalized name contains a
// known substring wins. Best effort by design, not a strict contract.
func ResolveColumns(headers []string) (Columns, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumn(h)
	}

	cols := Columns{
		PriceIndex:       -1,
		SizeIndex:        -1,
		TitleIndex:       -1,
		DescriptionIndex: -1,
	}

	cols.PriceIndex = findColumn(normalized, priceAliases, []string{"price", "cost"})
	cols.SizeIndex = findColumn(normalized, sizeAliases, []string{"size", "area", "sq"})

	if cols.PriceIndex < 0 || cols.SizeIndex < 0 {
		return Columns{}, ErrColumnsNotResolved
	}
	cols.PriceName = headers[cols.PriceIndex]
	cols.SizeName = headers[cols.SizeIndex]

	for i, n := range normalized {
		if n == "title" && cols.TitleIndex < 0 {
			cols.TitleIndex = i
		}
		if cols.DescriptionIndex < 0 {
			switch n {
			case "short_description", "description", "details":
				cols.DescriptionIndex = i
			}
		}
	}

	return cols, nil
}

func findColumn(normalized []string, aliases []string, substrings []string) int {
	for _, alias := range aliases {
		for i, n := range normalized {
			if n == alias {
				return i
			}
		}
	}
	// Fallback: first qualifying column in natural table order.
	for i, n := range normalized {
		for _, sub := range substrings {
			if strings.Contains(n, sub) {
				return i
			}
		}
	}
	return -1
}
