package booking

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jung-kurt/gofpdf"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/car"
	"github.com/a6cars/backend/mailer"
	"github.com/a6cars/backend/storage"
)

func PaymentStatus(c fiber.Ctx) error {
	id := c.Params("booking_id")

	if id == "" {
		return c.Status(http.StatusBadRequest).SendString("invalid booking id")
	}

	var payment Payment
	storage.DB.Limit(1).Find(&payment, "booking_id = ?", id)
	if payment.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Payment not found."})
	}

	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ?", id)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"booking_id":    payment.BookingID,
		"status":        payment.Status,
		"paid":          booking.Paid,
		"amount":        payment.Amount,
		"refund_status": payment.RefundStatus,
		"qr_expires_at": payment.QRExpiresAt,
	})
}

// ConfirmPayment is the legacy confirmation path: it marks the payment
// paid without a reference id and issues no pickup codes.
// /api/verify-payment is the canonical flow.
func ConfirmPayment(c fiber.Ctx) error {
	req := make(map[string]uint)
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	bookingID := req["booking_id"]
	if bookingID == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "booking_id required"})
	}

	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ?", bookingID)
	if booking.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Booking not found."})
	}
	if booking.Paid {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Booking already paid."})
	}

	tx := storage.DB.Begin()
	if err := tx.Model(&Payment{}).Where("booking_id = ?", bookingID).Update("status", PaymentPaid).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while confirming payment."})
	}
	if err := tx.Model(&Booking{}).Where("id = ?", bookingID).
		Updates(map[string]interface{}{"paid": true, "status": StatusConfirmed}).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while confirming payment."})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while confirming payment."})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Payment confirmed.", "booking_id": bookingID})
}

type VerifyPaymentRequest struct {
	BookingID          uint   `json:"booking_id"`
	PaymentReferenceID string `json:"payment_reference_id"`
	CustomerID         uint   `json:"customer_id"`
}

// VerifyPayment attaches the customer-supplied payment reference,
// confirms the booking and issues the collection and return QR codes.
func VerifyPayment(c fiber.Ctx) error {
	req := new(VerifyPaymentRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.BookingID == 0 || req.PaymentReferenceID == "" || req.CustomerID == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "booking_id, payment_reference_id and customer_id are required"})
	}

	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ? AND customer_id = ?", req.BookingID, req.CustomerID)
	if booking.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Booking not found."})
	}
	if booking.Paid {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Payment already verified."})
	}

	var payment Payment
	storage.DB.Limit(1).Find(&payment, "booking_id = ?", booking.ID)
	if payment.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Payment not found."})
	}

	// reference ids are single-use across all verified payments
	var reused int64
	storage.DB.Model(&Payment{}).
		Where("payment_reference_id = ? AND booking_id <> ?", req.PaymentReferenceID, booking.ID).
		Count(&reused)
	if reused > 0 {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Payment reference already used."})
	}

	collectionQR, err := encodePayloadQR(collectionPayload(booking, req.PaymentReferenceID))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while verifying payment."})
	}
	returnQR, err := encodePayloadQR(returnPayload(booking, req.PaymentReferenceID))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while verifying payment."})
	}

	tx := storage.DB.Begin()
	if err := tx.Model(&Payment{}).Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"payment_reference_id": req.PaymentReferenceID,
			"status":               PaymentVerified,
		}).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while verifying payment."})
	}
	if err := tx.Model(&Booking{}).Where("id = ?", booking.ID).
		Updates(map[string]interface{}{"paid": true, "verified": true, "status": StatusConfirmed}).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while verifying payment."})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while verifying payment."})
	}

	var rentedCar car.Car
	storage.DB.Limit(1).Find(&rentedCar, "id = ?", booking.CarID)

	var customer auth.Customer
	storage.DB.Limit(1).Find(&customer, "id = ?", booking.CustomerID)
	if customer.ID != 0 {
		go mailer.SendPaymentConfirmed(customer.Email, customer.Name, booking.ID,
			rentedCar.Brand+" "+rentedCar.CarModel, req.PaymentReferenceID, payment.Amount)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":       "Payment verified.",
		"collection_qr": collectionQR,
		"return_qr":     returnQR,
		"booking": fiber.Map{
			"booking_id": booking.ID,
			"car":        rentedCar.Brand + " " + rentedCar.CarModel,
			"start_date": booking.StartDate.Format("2006-01-02"),
			"end_date":   booking.EndDate.Format("2006-01-02"),
			"amount":     booking.Amount,
			"status":     StatusConfirmed,
		},
	})
}

// Receipt renders the payment receipt as a downloadable PDF.
func Receipt(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("booking_id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).SendString("invalid booking id")
	}

	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ?", id)
	if booking.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Booking not found."})
	}
	if !booking.Paid {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Booking not paid yet."})
	}

	var payment Payment
	storage.DB.Limit(1).Find(&payment, "booking_id = ?", booking.ID)

	var customer auth.Customer
	storage.DB.Limit(1).Find(&customer, "id = ?", booking.CustomerID)

	var rentedCar car.Car
	storage.DB.Limit(1).Find(&rentedCar, "id = ?", booking.CarID)

	reference := ""
	if payment.PaymentReferenceID != nil {
		reference = *payment.PaymentReferenceID
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "A6 Cars")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Booking: #%d", booking.ID))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02 15:04:05")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Customer: %s", customer.Name))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Vehicle: %s %s", rentedCar.Brand, rentedCar.CarModel))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Pickup: %s", booking.StartDate.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Return: %s", booking.EndDate.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Payment Reference: %s", reference))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Amount: %.2f INR", payment.Amount))

	if err := os.MkdirAll("receipts", 0755); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate receipt"})
	}
	filename := fmt.Sprintf("receipts/receipt_%d.pdf", booking.ID)
	if err := pdf.OutputFileAndClose(filename); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate receipt"})
	}

	return c.Download(filename)
}
