package discount

import (
	"time"

	"gorm.io/gorm"
)

// Discount is a percentage-off credit, optionally scoped to a car
// and/or date range, consumable once.
type Discount struct {
	gorm.Model
	CustomerID uint       `json:"customer_id"`
	CarID      *uint      `json:"car_id,omitempty"`
	Percent    float64    `json:"percent"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Code       string     `json:"code" gorm:"uniqueIndex"`
	Used       bool       `json:"used" gorm:"default:false"`
}

// FindEligible returns at most one unused discount matching the
// customer and the requested car/date range. Nil when none applies.
func FindEligible(db *gorm.DB, customerID, carID uint, start, end time.Time) (*Discount, error) {
	var d Discount
	result := db.
		Where("customer_id = ? AND used = ?", customerID, false).
		Where("(car_id IS NULL OR car_id = ?)", carID).
		Where("(start_date IS NULL OR start_date <= ?)", start).
		Where("(end_date IS NULL OR end_date >= ?)", end).
		Order("percent desc").
		Limit(1).
		Find(&d)
	if result.Error != nil {
		return nil, result.Error
	}
	if d.ID == 0 {
		return nil, nil
	}
	return &d, nil
}

// Consume marks a discount used. The conditional update keeps two
// concurrent bookings from both spending the same code: only the
// request that flips used wins.
func Consume(db *gorm.DB, id uint) (bool, error) {
	result := db.Model(&Discount{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Mint creates a discount with a fresh code.
func Mint(db *gorm.DB, customerID uint, carID *uint, percent float64, start, end *time.Time) (*Discount, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	d := Discount{
		CustomerID: customerID,
		CarID:      carID,
		Percent:    percent,
		StartDate:  start,
		EndDate:    end,
		Code:       code,
	}
	if result := db.Create(&d); result.Error != nil {
		return nil, result.Error
	}
	return &d, nil
}
