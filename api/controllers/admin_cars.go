package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carspace/carspace-backend/api/responses"
	"github.com/carspace/carspace-backend/api/validators"
	"github.com/carspace/carspace-backend/internal/cars"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/carspace/carspace-backend/pkg/logger"
)

// AdminCarsList returns the unfiltered catalog for the dashboard.
func AdminCarsList(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable"))
			return
		}

		catalog, err := svc.ListCars(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalog)
	}
}

// AdminCarCreate adds a listing to the catalog.
func AdminCarCreate(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable"))
			return
		}

		var body cars.CreateCarInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCar(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessNotice(w, created, "Car added successfully!")
	}
}

// AdminCarUpdate edits an existing listing.
func AdminCarUpdate(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable"))
			return
		}

		carID, err := uuid.Parse(chi.URLParam(r, "carId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid car id"))
			return
		}

		var body cars.UpdateCarInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateCar(r.Context(), carID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessNotice(w, updated, "Car updated successfully!")
	}
}

// AdminCarDelete removes a listing. The operation is idempotent.
func AdminCarDelete(svc cars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cars service unavailable"))
			return
		}

		carID, err := uuid.Parse(chi.URLParam(r, "carId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid car id"))
			return
		}

		if err := svc.DeleteCar(r.Context(), carID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessNotice(w, map[string]string{"status": "deleted"}, "Car deleted successfully!")
	}
}
