package car

import "gorm.io/gorm"

type Car struct {
	gorm.Model
	Brand     string     `json:"brand" validate:"required"`
	CarModel  string     `json:"model" gorm:"column:model" validate:"required"`
	Year      int        `json:"year" validate:"required"`
	DailyRate float64    `json:"daily_rate" validate:"required"`
	Location  string     `json:"location"`
	Images    []CarImage `json:"images" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type CarImage struct {
	gorm.Model
	CarID    uint   `json:"car_id"`
	ImageURL string `json:"image_url"`
}
