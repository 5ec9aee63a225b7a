package cars

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carspace/carspace-backend/pkg/db"
	"github.com/carspace/carspace-backend/pkg/db/models"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/carspace/carspace-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	ListCars(ctx context.Context) ([]CarDTO, error)
	CreateCar(ctx context.Context, input CreateCarInput) (*CarDTO, error)
	UpdateCar(ctx context.Context, carID uuid.UUID, input UpdateCarInput) (*CarDTO, error)
	DeleteCar(ctx context.Context, carID uuid.UUID) error
}

type feedNotifier interface {
	Publish(ctx context.Context, collection string) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	notifier feedNotifier
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, notifier feedNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cars repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("feed notifier required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		notifier: notifier,
	}, nil
}

// ListCars returns the full catalog ordered by creation time.
func (s *service) ListCars(ctx context.Context) ([]CarDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cars")
	}
	return fromModels(rows), nil
}

// CreateCar validates every field before issuing any write.
func (s *service) CreateCar(ctx context.Context, input CreateCarInput) (*CarDTO, error) {
	price, err := validateCarFields(input.Name, input.Price, input.ImageURL, input.Description)
	if err != nil {
		return nil, err
	}

	car := &models.Car{
		Name:        strings.TrimSpace(input.Name),
		Price:       price,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Description: strings.TrimSpace(input.Description),
	}
	created, err := s.repo.CreateCar(ctx, car)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create car")
	}

	// Feed delivery is best effort; the write already committed.
	_ = s.notifier.Publish(ctx, Collection)

	return FromModel(created), nil
}

// UpdateCar applies the provided fields. A concurrently deleted listing
// surfaces as NotFound.
func (s *service) UpdateCar(ctx context.Context, carID uuid.UUID, input UpdateCarInput) (*CarDTO, error) {
	var updated *models.Car
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		car, err := txRepo.FindByID(ctx, carID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load car")
		}

		if input.Name != nil {
			if strings.TrimSpace(*input.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
			}
			car.Name = strings.TrimSpace(*input.Name)
		}
		if input.Price != nil {
			price, err := money.ParseDisplay(*input.Price)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
			}
			car.Price = price
		}
		if input.ImageURL != nil {
			if strings.TrimSpace(*input.ImageURL) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
			}
			car.ImageURL = strings.TrimSpace(*input.ImageURL)
		}
		if input.Description != nil {
			if strings.TrimSpace(*input.Description) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
			}
			car.Description = strings.TrimSpace(*input.Description)
		}

		updated, err = txRepo.UpdateCar(ctx, car)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update car")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Publish(ctx, Collection)

	return FromModel(updated), nil
}

// DeleteCar removes the listing. Deleting an id that is already gone
// succeeds; removal is the guaranteed outcome.
func (s *service) DeleteCar(ctx context.Context, carID uuid.UUID) error {
	if err := s.repo.DeleteCar(ctx, carID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete car")
	}

	_ = s.notifier.Publish(ctx, Collection)

	return nil
}

func validateCarFields(name, price, imageURL, description string) (decimal.Decimal, error) {
	if strings.TrimSpace(name) == "" ||
		strings.TrimSpace(price) == "" ||
		strings.TrimSpace(imageURL) == "" ||
		strings.TrimSpace(description) == "" {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "all fields are required")
	}
	parsed, parseErr := money.ParseDisplay(price)
	if parseErr != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
	}
	return parsed, nil
}
