package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovedRequest is the copy written when an admin approves a buy
// request. It keeps its own id, carries the original request id, and
// repeats the snapshot fields verbatim, Status included.
type ApprovedRequest struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID  uuid.UUID       `gorm:"column:request_id;type:uuid;not null"`
	BuyerID    uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null"`
	BuyerEmail string          `gorm:"column:buyer_email;not null"`
	BuyerName  string          `gorm:"column:buyer_name;not null"`
	CarID      uuid.UUID       `gorm:"column:car_id;type:uuid;not null"`
	CarName    string          `gorm:"column:car_name;not null"`
	CarPrice   decimal.Decimal `gorm:"column:car_price;type:numeric(14,2);not null"`
	CarImage   string          `gorm:"column:car_image;not null"`
	Status     string          `gorm:"column:status;not null"`
	ApprovedAt time.Time       `gorm:"column:approved_at;autoCreateTime"`
}
