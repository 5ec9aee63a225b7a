package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carspace/carspace-backend/internal/auth"
	"github.com/carspace/carspace-backend/internal/cars"
	"github.com/carspace/carspace-backend/internal/live"
	"github.com/carspace/carspace-backend/internal/requests"
	"github.com/carspace/carspace-backend/internal/users"
	pkgAuth "github.com/carspace/carspace-backend/pkg/auth"
	"github.com/carspace/carspace-backend/pkg/auth/session"
	"github.com/carspace/carspace-backend/pkg/config"
	"github.com/carspace/carspace-backend/pkg/enums"
	"github.com/carspace/carspace-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.AdminLoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubSignupService struct{}

func (stubSignupService) Signup(ctx context.Context, req auth.SignupRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Email: req.Email}, nil
}

type stubCarsService struct{}

func (stubCarsService) ListCars(ctx context.Context) ([]cars.CarDTO, error) {
	return []cars.CarDTO{}, nil
}

func (stubCarsService) CreateCar(ctx context.Context, input cars.CreateCarInput) (*cars.CarDTO, error) {
	return &cars.CarDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubCarsService) UpdateCar(ctx context.Context, carID uuid.UUID, input cars.UpdateCarInput) (*cars.CarDTO, error) {
	return &cars.CarDTO{ID: carID}, nil
}

func (stubCarsService) DeleteCar(ctx context.Context, carID uuid.UUID) error {
	return nil
}

type stubRequestsService struct{}

func (stubRequestsService) CreateBuyRequest(ctx context.Context, buyerID, carID uuid.UUID) (*requests.BuyRequestDTO, error) {
	return &requests.BuyRequestDTO{ID: uuid.New(), BuyerID: buyerID, CarID: carID}, nil
}

func (stubRequestsService) ListPending(ctx context.Context) ([]requests.BuyRequestDTO, error) {
	return []requests.BuyRequestDTO{}, nil
}

func (stubRequestsService) ListApproved(ctx context.Context) ([]requests.ApprovedRequestDTO, error) {
	return []requests.ApprovedRequestDTO{}, nil
}

func (stubRequestsService) Approve(ctx context.Context, requestID uuid.UUID) (*requests.ApprovedRequestDTO, error) {
	return &requests.ApprovedRequestDTO{ID: uuid.New(), RequestID: requestID}, nil
}

func (stubRequestsService) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	return nil
}

func (stubRequestsService) Snapshot(ctx context.Context) (*requests.FeedSnapshot, error) {
	return &requests.FeedSnapshot{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	hub, err := live.NewHub(logg, nil)
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	if err := hub.RegisterCollection(cars.Collection, func(ctx context.Context) (any, error) {
		return []cars.CarDTO{}, nil
	}); err != nil {
		t.Fatalf("register cars feed: %v", err)
	}
	if err := hub.RegisterCollection(requests.Collection, func(ctx context.Context) (any, error) {
		return &requests.FeedSnapshot{}, nil
	}); err != nil {
		t.Fatalf("register requests feed: %v", err)
	}

	return NewRouter(Params{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		SessionManager: stubSessionManager{},
		AuthService:    stubAuthService{},
		SignupService:  stubSignupService{},
		CarsService:    stubCarsService{},
		RequestsSvc:    stubRequestsService{},
		Hub:            hub,
	})
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestCatalogRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCatalogAcceptsBuyerJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for buyer catalog got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	missing := httptest.NewRequest(http.MethodGet, "/api/admin/v1/cars/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	buyer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/cars/", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on admin surface got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/cars/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminRequestsRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	buyer := httptest.NewRequest(http.MethodPost, "/api/admin/v1/requests/"+uuid.NewString()+"/approve", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer approve got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/admin/v1/requests/"+uuid.NewString()+"/approve", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin approve got %d", resp.Code)
	}
}

func TestBuyNowRequiresAuthentication(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	anonymous := httptest.NewRequest(http.MethodPost, "/api/v1/cars/"+uuid.NewString()+"/buy", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anonymous)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous buy got %d", resp.Code)
	}

	buyer := httptest.NewRequest(http.MethodPost, "/api/v1/cars/"+uuid.NewString()+"/buy", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleBuyer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for buyer buy got %d", resp.Code)
	}
}

func TestSignupRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestSignupAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())
	body := `{"email":"buyer@example.com","password":"Secret#1","display_name":"Buyer One"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid payload got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.SystemRole) string {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
