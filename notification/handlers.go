package notification

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

	var notifications []Notification
	if result := storage.DB.Where("customer_id = ?", id).Order("created_at desc").Find(&notifications); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load notifications"})
	}

	return c.Status(http.StatusOK).JSON(notifications)
}

func MarkRead(c fiber.Ctx) error {
	id := c.Params("id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid notification id")
	}

	result := storage.DB.Model(&Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "notification not found"})
	}

	return c.SendStatus(http.StatusOK)
}
