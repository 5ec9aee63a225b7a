package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyRequest is a pending purchase request. The car fields are a
// snapshot taken at creation time; later catalog edits never touch them.
type BuyRequest struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID    uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null"`
	BuyerEmail string          `gorm:"column:buyer_email;not null"`
	BuyerName  string          `gorm:"column:buyer_name;not null"`
	CarID      uuid.UUID       `gorm:"column:car_id;type:uuid;not null"`
	CarName    string          `gorm:"column:car_name;not null"`
	CarPrice   decimal.Decimal `gorm:"column:car_price;type:numeric(14,2);not null"`
	CarImage   string          `gorm:"column:car_image;not null"`
	Status     string          `gorm:"column:status;not null;default:'Pending'"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
