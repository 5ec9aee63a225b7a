package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ParseQueryDecimal reads an optional decimal query parameter. A missing
// or blank value returns nil.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryBoolFlag reports whether the parameter equals the expected
// literal ("view=all" style flags).
func ParseQueryBoolFlag(r *http.Request, key, literal string) bool {
	return strings.EqualFold(strings.TrimSpace(r.URL.Query().Get(key)), literal)
}
