package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/carspace/carspace-backend/internal/users"
	"github.com/carspace/carspace-backend/pkg/config"
	"github.com/carspace/carspace-backend/pkg/db"
	pkgerrors "github.com/carspace/carspace-backend/pkg/errors"
	"github.com/carspace/carspace-backend/pkg/security"
	"gorm.io/gorm"
)

// stockAvatarURL is applied to accounts created without a photo.
const stockAvatarURL = "https://pbs.twimg.com/profile_images/1525649141296074752/50-ylSJG_400x400.jpg"

// SignupRequest contains the payload required to create a buyer account.
type SignupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	DisplayName string  `json:"display_name" validate:"required"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// SignupService handles buyer account creation.
type SignupService interface {
	Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error)
}

// SignupServiceParams packages the dependencies for the signup flow.
type SignupServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type signupService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewSignupService builds a signup service with the provided dependencies.
func NewSignupService(params SignupServiceParams) (SignupService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &signupService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *signupService) Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display_name is required")
	}

	photoURL := stockAvatarURL
	if req.PhotoURL != nil && strings.TrimSpace(*req.PhotoURL) != "" {
		photoURL = strings.TrimSpace(*req.PhotoURL)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  displayName,
			PhotoURL:     photoURL,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
