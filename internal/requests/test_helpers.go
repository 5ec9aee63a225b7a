package requests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/carspace/carspace-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRequestsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL,
  photo_url TEXT NOT NULL DEFAULT '',
  system_role TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cars (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  image_url TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS buy_requests (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  buyer_email TEXT NOT NULL,
  buyer_name TEXT NOT NULL,
  car_id TEXT NOT NULL,
  car_name TEXT NOT NULL,
  car_price TEXT NOT NULL,
  car_image TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS approved_requests (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  buyer_email TEXT NOT NULL,
  buyer_name TEXT NOT NULL,
  car_id TEXT NOT NULL,
  car_name TEXT NOT NULL,
  car_price TEXT NOT NULL,
  car_image TEXT NOT NULL,
  status TEXT NOT NULL,
  approved_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func mustCreateTestBuyer(t *testing.T, tx *gorm.DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		DisplayName:  name,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	return user
}

func mustCreateTestListing(t *testing.T, tx *gorm.DB, name, price string) *models.Car {
	t.Helper()
	car := &models.Car{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		ImageURL:    "https://img.example.com/" + uuid.NewString(),
		Description: "test listing",
	}
	if err := tx.Create(car).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return car
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []string
}

func (f *fakeNotifier) Publish(ctx context.Context, collection string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, collection)
	return nil
}

func (f *fakeNotifier) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.published {
		if c == collection {
			n++
		}
	}
	return n
}
