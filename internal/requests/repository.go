package requests

import (
	"context"

	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence for both request sets.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateBuyRequest inserts a pending request, assigning the id server-side.
func (r *Repository) CreateBuyRequest(ctx context.Context, req *models.BuyRequest) (*models.BuyRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// FindBuyRequestByID loads a single pending request.
func (r *Repository) FindBuyRequestByID(ctx context.Context, id uuid.UUID) (*models.BuyRequest, error) {
	var req models.BuyRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPending returns the pending set ordered by creation time.
func (r *Repository) ListPending(ctx context.Context) ([]models.BuyRequest, error) {
	var rows []models.BuyRequest
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// DeleteBuyRequest removes a pending request. Absent ids are not an error.
func (r *Repository) DeleteBuyRequest(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BuyRequest{}).Error
}

// CreateApprovedRequest inserts an approved copy, assigning the id server-side.
func (r *Repository) CreateApprovedRequest(ctx context.Context, req *models.ApprovedRequest) (*models.ApprovedRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// ListApproved returns the approved set ordered by approval time.
func (r *Repository) ListApproved(ctx context.Context) ([]models.ApprovedRequest, error) {
	var rows []models.ApprovedRequest
	err := r.db.WithContext(ctx).
		Order("approved_at ASC").
		Find(&rows).
		Error
	return rows, err
}
