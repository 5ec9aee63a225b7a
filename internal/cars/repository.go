package cars

import (
	"context"

	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence operations.
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

// FindByID loads a single listing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// List returns the full catalog ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Car, error) {
	var rows []models.Car
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateCar inserts a new listing row, assigning the id server-side.
func (r *Repository) CreateCar(ctx context.Context, car *models.Car) (*models.Car, error) {
	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return nil, err
	}
	return car, nil
}

// UpdateCar saves an existing listing row.
func (r *Repository) UpdateCar(ctx context.Context, car *models.Car) (*models.Car, error) {
	if err := r.db.WithContext(ctx).Save(car).Error; err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteCar removes a listing by ID. Deleting an absent row is not an error.
func (r *Repository) DeleteCar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Car{}).Error
}
