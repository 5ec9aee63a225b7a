package cars

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

func setupCarsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	carsTable := `
CREATE TABLE IF NOT EXISTS cars (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  image_url TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(carsTable).Error)

	return db
}

func mustCreateTestCar(t *testing.T, tx *gorm.DB, name string, price string) *models.Car {
	t.Helper()
	car := &models.Car{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		ImageURL:    "https://img.example.com/" + uuid.NewString(),
		Description: "test listing",
	}
	if err := tx.Create(car).Error; err != nil {
		t.Fatalf("create car: %v", err)
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
