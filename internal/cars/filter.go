package cars

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultWindowSize is how many listings a catalog view shows before the
// consumer asks for the rest.
const DefaultWindowSize = 9

// FilterParams carries the client-driven catalog filter. A nil MaxPrice
// means "no ceiling", which resolves to the catalog's maximum price.
type FilterParams struct {
	Search   string
	MaxPrice *decimal.Decimal
	ViewAll  bool
}

// MaxPrice returns the highest price in the unfiltered catalog, the
// default ceiling when the consumer has not set one. Zero for an empty
// catalog.
func MaxPrice(listing []CarDTO) decimal.Decimal {
	max := decimal.Zero
	for i := range listing {
		if listing[i].Price.GreaterThan(max) {
			max = listing[i].Price
		}
	}
	return max
}

// Filter keeps listings whose lowercase name contains the lowercase
// search term and whose price does not exceed the ceiling. Input order
// is preserved; the input slice is never mutated.
func Filter(listing []CarDTO, search string, ceiling decimal.Decimal) []CarDTO {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]CarDTO, 0, len(listing))
	for i := range listing {
		if term != "" && !strings.Contains(strings.ToLower(listing[i].Name), term) {
			continue
		}
		if listing[i].Price.GreaterThan(ceiling) {
			continue
		}
		out = append(out, listing[i])
	}
	return out
}

// Window trims the filtered result to the first DefaultWindowSize
// entries unless the consumer asked for everything. Any filter change
// re-runs the whole pipeline, so the window always resets with it.
func Window(filtered []CarDTO, viewAll bool) []CarDTO {
	if viewAll || len(filtered) <= DefaultWindowSize {
		return filtered
	}
	return filtered[:DefaultWindowSize]
}

// ApplyFilter runs the full view pipeline: resolve the ceiling, filter,
// then window.
func ApplyFilter(listing []CarDTO, params FilterParams) []CarDTO {
	ceiling := MaxPrice(listing)
	if params.MaxPrice != nil {
		ceiling = *params.MaxPrice
	}
	return Window(Filter(listing, params.Search, ceiling), params.ViewAll)
}
