package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/carspace/carspace-backend/internal/cars"
	"github.com/carspace/carspace-backend/internal/users"
	"github.com/carspace/carspace-backend/pkg/db"
	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/carspace/carspace-backend/pkg/enums"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the purchase-request lifecycle: buyers file requests,
// admins review the pending set and approve or discard entries.
type Service interface {
	CreateBuyRequest(ctx context.Context, buyerID, carID uuid.UUID) (*BuyRequestDTO, error)
	ListPending(ctx context.Context) ([]BuyRequestDTO, error)
	ListApproved(ctx context.Context) ([]ApprovedRequestDTO, error)
	Approve(ctx context.Context, requestID uuid.UUID) (*ApprovedRequestDTO, error)
	DeleteRequest(ctx context.Context, requestID uuid.UUID) error
	Snapshot(ctx context.Context) (*FeedSnapshot, error)
}

// FeedSnapshot is the live feed payload: both request sets together, so
// one emission describes the entire review surface.
type FeedSnapshot struct {
	Pending  []BuyRequestDTO      `json:"pending"`
	Approved []ApprovedRequestDTO `json:"approved"`
}

type feedNotifier interface {
	Publish(ctx context.Context, collection string) error
}

type service struct {
	repo      *Repository
	usersRepo *users.Repository
	carsRepo  *cars.Repository
	dbClient  *db.Client
	notifier  feedNotifier
}

// NewService constructs a request service instance.
func NewService(repo *Repository, usersRepo *users.Repository, carsRepo *cars.Repository, dbClient *db.Client, notifier feedNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if carsRepo == nil {
		return nil, fmt.Errorf("cars repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("feed notifier required")
	}
	return &service{
		repo:      repo,
		usersRepo: usersRepo,
		carsRepo:  carsRepo,
		dbClient:  dbClient,
		notifier:  notifier,
	}, nil
}

// CreateBuyRequest snapshots the buyer and listing into a pending row.
// The copied car fields stay fixed even if the listing changes later.
func (s *service) CreateBuyRequest(ctx context.Context, buyerID, carID uuid.UUID) (*BuyRequestDTO, error) {
	buyer, err := s.usersRepo.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load buyer")
	}

	car, err := s.carsRepo.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load car")
	}

	req := &models.BuyRequest{
		BuyerID:    buyer.ID,
		BuyerEmail: buyer.Email,
		BuyerName:  buyer.DisplayName,
		CarID:      car.ID,
		CarName:    car.Name,
		CarPrice:   car.Price,
		CarImage:   car.ImageURL,
		Status:     enums.RequestStatusPending.String(),
	}
	created, err := s.repo.CreateBuyRequest(ctx, req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create buy request")
	}

	// Feed delivery is best effort; the write already committed.
	_ = s.notifier.Publish(ctx, Collection)

	return FromModel(created), nil
}

// ListPending returns pending requests ordered by creation time.
func (s *service) ListPending(ctx context.Context) ([]BuyRequestDTO, error) {
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending requests")
	}
	return fromModels(rows), nil
}

// ListApproved returns approved requests ordered by approval time.
func (s *service) ListApproved(ctx context.Context) ([]ApprovedRequestDTO, error) {
	rows, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list approved requests")
	}
	return fromApprovedModels(rows), nil
}

// Snapshot returns both sets for one live feed emission.
func (s *service) Snapshot(ctx context.Context) (*FeedSnapshot, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return &FeedSnapshot{Pending: pending, Approved: approved}, nil
}

// Approve copies a pending request into the approved set and removes the
// original. Both writes commit together, so a request is never in both
// sets and never lost between them. Approving an id that is already gone
// surfaces as NotFound.
func (s *service) Approve(ctx context.Context, requestID uuid.UUID) (*ApprovedRequestDTO, error) {
	var approved *models.ApprovedRequest
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		req, err := txRepo.FindBuyRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
		}

		copy := &models.ApprovedRequest{
			RequestID:  req.ID,
			BuyerID:    req.BuyerID,
			BuyerEmail: req.BuyerEmail,
			BuyerName:  req.BuyerName,
			CarID:      req.CarID,
			CarName:    req.CarName,
			CarPrice:   req.CarPrice,
			CarImage:   req.CarImage,
			Status:     req.Status,
		}
		approved, err = txRepo.CreateApprovedRequest(ctx, copy)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create approved copy")
		}

		if err := txRepo.DeleteBuyRequest(ctx, req.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove pending request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Publish(ctx, Collection)

	return FromApprovedModel(approved), nil
}

// DeleteRequest discards a pending request. Deleting an id that is
// already gone succeeds; removal is the guaranteed outcome.
func (s *service) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	if err := s.repo.DeleteBuyRequest(ctx, requestID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete request")
	}

	_ = s.notifier.Publish(ctx, Collection)

	return nil
}
