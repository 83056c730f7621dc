package discount

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/a6cars/backend/storage"
)

func ListByCustomer(c fiber.Ctx) error {
	id := c.Params("customer_id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid customer id")
	}

	var discounts []Discount
	if result := storage.DB.Where("customer_id = ?", id).Order("created_at desc").Find(&discounts); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load discounts"})
	}

	return c.Status(http.StatusOK).JSON(discounts)
}
