package notification

import "gorm.io/gorm"

// Notification is an append-only, customer-visible feed entry.
type Notification struct {
	gorm.Model
	CustomerID uint   `json:"customer_id" gorm:"index"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Read       bool   `json:"read" gorm:"default:false"`
}

func Push(db *gorm.DB, customerID uint, title, message string) error {
	return db.Create(&Notification{
		CustomerID: customerID,
		Title:      title,
		Message:    message,
	}).Error
}
