package car

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/a6cars/backend/storage"
)

type carRow struct {
	ID        uint     `json:"id"`
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	Year      int      `json:"year"`
	DailyRate float64  `json:"daily_rate"`
	Location  string   `json:"location"`
	Images    []string `json:"images"`
}

func toRows(cars []Car) []carRow {
	rows := make([]carRow, 0, len(cars))
	for _, car := range cars {
		row := carRow{
			ID:        car.ID,
			Brand:     car.Brand,
			Model:     car.CarModel,
			Year:      car.Year,
			DailyRate: car.DailyRate,
			Location:  car.Location,
			Images:    make([]string, 0, len(car.Images)),
		}
		for _, img := range car.Images {
			row.Images = append(row.Images, img.ImageURL)
		}
		rows = append(rows, row)
	}
	return rows
}

func List(c fiber.Ctx) error {
	var cars []Car
	if result := storage.DB.Preload("Images").Find(&cars); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load cars"})
	}

	return c.Status(http.StatusOK).JSON(toRows(cars))
}

// Search filters the listing on a single column. params {filter: [brand, location, year], value}
func Search(c fiber.Ctx) error {
	filter := c.Query("filter")
	value := c.Query("value")

	var cars []Car

	switch filter {
	case "":
		return List(c)
	case "brand", "model", "location", "year":
		if result := storage.DB.Preload("Images").Where(fmt.Sprintf("%s = ?", filter), value).Find(&cars); result.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to search cars"})
		}
		return c.Status(http.StatusOK).JSON(toRows(cars))
	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "unknown filter"})
	}
}

type AddCarRequest struct {
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	Year      int      `json:"year"`
	DailyRate float64  `json:"daily_rate"`
	Location  string   `json:"location"`
	ImageURLs []string `json:"image_urls"`
}

func Add(c fiber.Ctx) error {
	req := new(AddCarRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.Brand == "" || req.Model == "" || req.Year == 0 || req.DailyRate == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "All required fields must be filled."})
	}

	newCar := Car{
		Brand:     req.Brand,
		CarModel:  req.Model,
		Year:      req.Year,
		DailyRate: req.DailyRate,
		Location:  req.Location,
	}
	for _, u := range req.ImageURLs {
		newCar.Images = append(newCar.Images, CarImage{ImageURL: u})
	}

	if result := storage.DB.Create(&newCar); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while adding car."})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Car added successfully!", "car_id": newCar.ID})
}
