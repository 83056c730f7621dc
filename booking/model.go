package booking

import (
	"time"

	"gorm.io/gorm"
)

// Booking status values. Who collected or returned the car lives in
// CollectedBy/ReturnedBy, not in the status string.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCollected = "collected"
	StatusReturned  = "returned"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentVerified = "verified"
)

const (
	RefundPending   = "pending"
	RefundProcessed = "processed"
)

type Booking struct {
	gorm.Model
	CarID              uint      `json:"car_id" validate:"required"`
	CustomerID         uint      `json:"customer_id" validate:"required"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	Amount             float64   `json:"amount"`
	Status             string    `json:"status" gorm:"default:pending"`
	Paid               bool      `json:"paid" gorm:"default:false"`
	Verified           bool      `json:"verified" gorm:"default:false"`
	CollectionVerified bool      `json:"collection_verified" gorm:"default:false"`
	ReturnVerified     bool      `json:"return_verified" gorm:"default:false"`
	CollectedBy        string    `json:"collected_by,omitempty"`
	ReturnedBy         string    `json:"returned_by,omitempty"`
	DiscountID         *uint     `json:"discount_id,omitempty"`
	DiscountPercent    float64   `json:"discount_percent,omitempty"`
}

// Payment is created once per booking and updated in place.
type Payment struct {
	gorm.Model
	BookingID          uint       `json:"booking_id" gorm:"index"`
	Amount             float64    `json:"amount"`
	UpiID              string     `json:"upi_id"`
	QRCode             string     `json:"qr_code" gorm:"type:text"`
	Status             string     `json:"status" gorm:"default:pending"`
	PaymentReferenceID *string    `json:"payment_reference_id,omitempty" gorm:"uniqueIndex"`
	QRExpiresAt        time.Time  `json:"qr_expires_at"`
	RefundAmount       float64    `json:"refund_amount"`
	RefundStatus       string     `json:"refund_status,omitempty"`
	RefundRequestedAt  *time.Time `json:"refund_requested_at,omitempty"`
	RefundProcessedAt  *time.Time `json:"refund_processed_at,omitempty"`
	RefundDueBy        *time.Time `json:"refund_due_by,omitempty"`
}

type Refund struct {
	gorm.Model
	PaymentID   uint       `json:"payment_id"`
	BookingID   uint       `json:"booking_id"`
	CustomerID  uint       `json:"customer_id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status" gorm:"default:pending"`
	Reason      string     `json:"reason"`
	Reference   string     `json:"reference"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// BookingCancellation is the audit trail: one row per cancellation event.
type BookingCancellation struct {
	gorm.Model
	BookingID     uint      `json:"booking_id"`
	CustomerID    uint      `json:"customer_id"`
	Reason        string    `json:"reason"`
	CanceledBy    string    `json:"canceled_by"`
	AdminEmail    string    `json:"admin_email,omitempty"`
	RefundPercent float64   `json:"refund_percent"`
	RefundAmount  float64   `json:"refund_amount"`
	Status        string    `json:"status"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
