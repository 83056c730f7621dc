package booking

import (
	"math"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/car"
	"github.com/a6cars/backend/config"
	"github.com/a6cars/backend/discount"
	"github.com/a6cars/backend/mailer"
	"github.com/a6cars/backend/storage"
)

// how long a payment QR stays valid
const qrExpiry = 180 * time.Second

type BookRequest struct {
	CarID      uint   `json:"car_id"`
	CustomerID uint   `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Book creates a pending booking with its payment row and UPI QR.
// The conflict check runs inside the same transaction as the insert.
func Book(c fiber.Ctx) error {
	req := new(BookRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.CarID == 0 || req.CustomerID == 0 || req.StartDate == "" || req.EndDate == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "All fields are required."})
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid start_date"})
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid end_date"})
	}
	if end.Before(start) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "end_date before start_date"})
	}

	var rentedCar car.Car
	storage.DB.Limit(1).Find(&rentedCar, "id = ?", req.CarID)
	if rentedCar.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Car not found."})
	}

	tx := storage.DB.Begin()
	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}

	// only cancellation or a completed return frees the range; a
	// collected car still occupies its dates
	var conflicts int64
	err = tx.Model(&Booking{}).
		Where("car_id = ? AND status NOT IN ?", req.CarID, []string{StatusCancelled, StatusReturned}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&conflicts).Error
	if err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}
	if conflicts > 0 {
		tx.Rollback()
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Car already booked for the selected dates."})
	}

	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	total := rentedCar.DailyRate * float64(days)

	booking := Booking{
		CarID:      req.CarID,
		CustomerID: req.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Status:     StatusPending,
	}

	d, err := discount.FindEligible(tx, req.CustomerID, req.CarID, start, end)
	if err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}
	if d != nil {
		consumed, err := discount.Consume(tx, d.ID)
		if err != nil {
			tx.Rollback()
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
		}
		if consumed {
			total = total * (100 - d.Percent) / 100
			id := d.ID
			booking.DiscountID = &id
			booking.DiscountPercent = d.Percent
		}
	}

	booking.Amount = total

	if result := tx.Create(&booking); result.Error != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}

	upiLink := BuildUPILink(config.MerchantVPA(), total, booking.ID)
	qr, err := EncodeQR(upiLink)
	if err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}

	payment := Payment{
		BookingID:   booking.ID,
		Amount:      total,
		UpiID:       config.MerchantVPA(),
		QRCode:      qr,
		Status:      PaymentPending,
		QRExpiresAt: time.Now().Add(qrExpiry),
	}
	if result := tx.Create(&payment); result.Error != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while booking."})
	}

	var customer auth.Customer
	storage.DB.Limit(1).Find(&customer, "id = ?", req.CustomerID)
	if customer.ID != 0 {
		go mailer.SendBookingConfirmation(customer.Email, customer.Name, booking.ID,
			rentedCar.Brand+" "+rentedCar.CarModel, start, end, total)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":       "Booking created. Complete payment to confirm.",
		"booking_id":    booking.ID,
		"total":         total,
		"payment_qr":    qr,
		"qr_expires_in": int(qrExpiry.Seconds()),
	})
}

func MyBookings(c fiber.Ctx) error {
	id := c.Params("customer_id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid customer id")
	}

	var bookings []Booking
	if result := storage.DB.Where("customer_id = ?", id).Order("created_at desc").Find(&bookings); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load bookings"})
	}

	return c.Status(http.StatusOK).JSON(bookings)
}

func CarBookings(c fiber.Ctx) error {
	id := c.Params("car_id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid car id")
	}

	var bookings []Booking
	if result := storage.DB.Where("car_id = ? AND status <> ?", id, StatusCancelled).Order("start_date").Find(&bookings); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load bookings"})
	}

	return c.Status(http.StatusOK).JSON(bookings)
}

type BatchRequest struct {
	BookingIDs []uint `json:"booking_ids"`
}

func Batch(c fiber.Ctx) error {
	req := new(BatchRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if len(req.BookingIDs) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "booking_ids required"})
	}

	var bookings []Booking
	if result := storage.DB.Where("id IN ?", req.BookingIDs).Find(&bookings); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load bookings"})
	}

	return c.Status(http.StatusOK).JSON(bookings)
}

// History joins each booking of a customer with its car and payment row.
func History(c fiber.Ctx) error {
	id := c.Params("customer_id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid customer id")
	}

	var rows []struct {
		BookingID uint      `json:"booking_id"`
		Brand     string    `json:"brand"`
		CarModel  string    `json:"model"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
		Amount    float64   `json:"amount"`
		Status    string    `json:"status"`
		Paid      bool      `json:"paid"`
		PayStatus string    `json:"payment_status"`
	}

	err := storage.DB.Raw(`
		SELECT bookings.id        AS booking_id,
		       cars.brand         AS brand,
		       cars.model         AS car_model,
		       bookings.start_date,
		       bookings.end_date,
		       bookings.amount,
		       bookings.status,
		       bookings.paid,
		       payments.status    AS pay_status
		FROM bookings
		LEFT JOIN cars ON cars.id = bookings.car_id
		LEFT JOIN payments ON payments.booking_id = bookings.id
		WHERE bookings.customer_id = ?
		ORDER BY bookings.created_at DESC`, id).Scan(&rows).Error
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load history"})
	}

	return c.Status(http.StatusOK).JSON(rows)
}
