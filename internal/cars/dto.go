package cars

import (
	"time"

	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/carspace/carspace-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection names the catalog for live feed invalidations.
const Collection = "cars"

// CarDTO is the transport shape for a catalog listing. Price is the
// canonical decimal; PriceDisplay is derived for rendering.
type CarDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
	ImageURL     string          `json:"image_url"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCarInput holds the validated payload to create a listing. Price
// accepts both plain numbers and the decorated legacy form ("₹5,00,000").
type CreateCarInput struct {
	Name        string `json:"name" validate:"required"`
	Price       string `json:"price" validate:"required"`
	ImageURL    string `json:"image_url" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateCarInput holds optional mutation values for a listing.
type UpdateCarInput struct {
	Name        *string `json:"name,omitempty"`
	Price       *string `json:"price,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Description *string `json:"description,omitempty"`
}

func FromModel(car *models.Car) *CarDTO {
	if car == nil {
		return nil
	}
	return &CarDTO{
		ID:           car.ID,
		Name:         car.Name,
		Price:        car.Price,
		PriceDisplay: money.FormatINR(car.Price),
		ImageURL:     car.ImageURL,
		Description:  car.Description,
		CreatedAt:    car.CreatedAt,
		UpdatedAt:    car.UpdatedAt,
	}
}

func fromModels(rows []models.Car) []CarDTO {
	out := make([]CarDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
