package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carspace/carspace-backend/api/middleware"
	"github.com/carspace/carspace-backend/api/responses"
	"github.com/carspace/carspace-backend/api/validators"
	"github.com/carspace/carspace-backend/internal/cars"
	"github.com/carspace/carspace-backend/internal/requests"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/carspace/carspace-backend/pkg/logger"
)

// CarsList serves the buyer catalog with client-driven filtering: a
// search term, a price ceiling, and the view=all window expansion.
func CarsList(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable"))
			return
		}

		maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		catalog, err := svc.ListCars(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := cars.ApplyFilter(catalog, cars.FilterParams{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			MaxPrice: maxPrice,
			ViewAll:  validators.ParseQueryBoolFlag(r, "view", "all"),
		})

		responses.WriteSuccess(w, result)
	}
}

// CarBuyNow files a purchase request for the authenticated buyer.
func CarBuyNow(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service unavailable"))
			return
		}

		buyerID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		carID, err := uuid.Parse(chi.URLParam(r, "carId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid car id"))
			return
		}

		created, err := svc.CreateBuyRequest(r.Context(), buyerID, carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessNotice(w, created, "Buy request sent successfully!")
	}
}
