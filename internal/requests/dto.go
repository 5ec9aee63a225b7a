package requests

import (
	"time"

	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/carspace/carspace-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection names the request store for live feed invalidations. The
// pending and approved sets move together, so they share one channel.
const Collection = "requests"

// BuyRequestDTO is the transport shape of a pending purchase request.
// Car fields are the snapshot taken when the request was created.
type BuyRequestDTO struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	BuyerEmail      string          `json:"buyer_email"`
	BuyerName       string          `json:"buyer_name"`
	CarID           uuid.UUID       `json:"car_id"`
	CarName         string          `json:"car_name"`
	CarPrice        decimal.Decimal `json:"car_price"`
	CarPriceDisplay string          `json:"car_price_display"`
	CarImage        string          `json:"car_image"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ApprovedRequestDTO is the transport shape of an approved copy.
type ApprovedRequestDTO struct {
	ID              uuid.UUID       `json:"id"`
	RequestID       uuid.UUID       `json:"request_id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	BuyerEmail      string          `json:"buyer_email"`
	BuyerName       string          `json:"buyer_name"`
	CarID           uuid.UUID       `json:"car_id"`
	CarName         string          `json:"car_name"`
	CarPrice        decimal.Decimal `json:"car_price"`
	CarPriceDisplay string          `json:"car_price_display"`
	CarImage        string          `json:"car_image"`
	Status          string          `json:"status"`
	ApprovedAt      time.Time       `json:"approved_at"`
}

func FromModel(req *models.BuyRequest) *BuyRequestDTO {
	if req == nil {
		return nil
	}
	return &BuyRequestDTO{
		ID:              req.ID,
		BuyerID:         req.BuyerID,
		BuyerEmail:      req.BuyerEmail,
		BuyerName:       req.BuyerName,
		CarID:           req.CarID,
		CarName:         req.CarName,
		CarPrice:        req.CarPrice,
		CarPriceDisplay: money.FormatINR(req.CarPrice),
		CarImage:        req.CarImage,
		Status:          req.Status,
		CreatedAt:       req.CreatedAt,
	}
}

func FromApprovedModel(req *models.ApprovedRequest) *ApprovedRequestDTO {
	if req == nil {
		return nil
	}
	return &ApprovedRequestDTO{
		ID:              req.ID,
		RequestID:       req.RequestID,
		BuyerID:         req.BuyerID,
		BuyerEmail:      req.BuyerEmail,
		BuyerName:       req.BuyerName,
		CarID:           req.CarID,
		CarName:         req.CarName,
		CarPrice:        req.CarPrice,
		CarPriceDisplay: money.FormatINR(req.CarPrice),
		CarImage:        req.CarImage,
		Status:          req.Status,
		ApprovedAt:      req.ApprovedAt,
	}
}

func fromModels(rows []models.BuyRequest) []BuyRequestDTO {
	out := make([]BuyRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func fromApprovedModels(rows []models.ApprovedRequest) []ApprovedRequestDTO {
	out := make([]ApprovedRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromApprovedModel(&rows[i]))
	}
	return out
}
