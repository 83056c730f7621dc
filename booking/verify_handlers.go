package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/a6cars/backend/storage"
)

type VerifyQRRequest struct {
	QRData struct {
		BookingID uint   `json:"booking_id"`
		QRType    string `json:"qr_type"`
	} `json:"qr_data"`
	VerifiedBy string `json:"verified_by,omitempty"`
}

// VerifyQR records a staff scan at pickup or drop-off. An early return
// scan also reports the vacancy windows freed up on the car.
func VerifyQR(c fiber.Ctx) error {
	req := new(VerifyQRRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.QRData.BookingID == 0 || req.QRData.QRType == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "qr_data with booking_id and qr_type is required"})
	}

	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ?", req.QRData.BookingID)
	if booking.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Booking not found."})
	}
	if booking.Status == StatusCancelled {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Booking is cancelled."})
	}

	verifiedBy := req.VerifiedBy
	if email, ok := c.Locals("admin_email").(string); ok && verifiedBy == "" {
		verifiedBy = email
	}

	switch req.QRData.QRType {
	case QRTypeCollection:
		updates := map[string]interface{}{
			"collection_verified": true,
			"status":              StatusCollected,
			"collected_by":        verifiedBy,
		}
		if result := storage.DB.Model(&Booking{}).Where("id = ?", booking.ID).Updates(updates); result.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update booking"})
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message":    "Collection verified.",
			"booking_id": booking.ID,
			"status":     StatusCollected,
		})

	case QRTypeReturn:
		updates := map[string]interface{}{
			"return_verified": true,
			"status":          StatusReturned,
			"returned_by":     verifiedBy,
		}
		if result := storage.DB.Model(&Booking{}).Where("id = ?", booking.ID).Updates(updates); result.Error != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update booking"})
		}

		// an early return frees the car for the rest of the booked window
		var vacancies []DateRange
		now := time.Now()
		if now.Before(booking.EndDate) {
			var err error
			vacancies, err = vacanciesForCar(storage.DB, booking.CarID, booking.ID, DateRange{Start: now, End: booking.EndDate})
			if err != nil {
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to compute vacancies"})
			}
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message":    "Return verified.",
			"booking_id": booking.ID,
			"status":     StatusReturned,
			"vacancies":  vacancies,
		})

	default:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "qr_type must be 'collection' or 'return'"})
	}
}

// CarSchedule lists a car's upcoming bookings plus the free ranges
// between them.
func CarSchedule(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("car_id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).SendString("invalid car id")
	}

	var bookings []Booking
	result := storage.DB.
		Where("car_id = ? AND status <> ?", id, StatusCancelled).
		Order("start_date").
		Find(&bookings)
	if result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load schedule"})
	}

	now := time.Now()
	windowEnd := now
	busy := make([]DateRange, 0, len(bookings))
	for _, b := range bookings {
		if b.EndDate.After(windowEnd) {
			windowEnd = b.EndDate
		}
		busy = append(busy, DateRange{Start: b.StartDate, End: b.EndDate})
	}

	vacancies := subtractRanges(DateRange{Start: now, End: windowEnd}, busy)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"car_id":    id,
		"bookings":  bookings,
		"vacancies": vacancies,
	})
}
