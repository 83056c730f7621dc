package booking

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/discount"
	"github.com/a6cars/backend/mailer"
	"github.com/a6cars/backend/notification"
	"github.com/a6cars/backend/storage"
)

const (
	refundDueWindow   = 72 * time.Hour
	freeCancelWindow  = 48 * time.Hour
	lateCancelPercent = 50.0
)

type CancelRequest struct {
	BookingID   uint   `json:"booking_id"`
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason"`
	CustomerID  uint   `json:"customer_id,omitempty"`
	AdminEmail  string `json:"admin_email,omitempty"`
}

// Cancel handles user- and admin-initiated cancellation. An admin
// actor must present an admin bearer token even on this public route.
func Cancel(c fiber.Ctx) error {
	req := new(CancelRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.BookingID == 0 || req.CancelledBy == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "booking_id and cancelled_by are required"})
	}

	if req.CancelledBy != "admin" && req.CancelledBy != "user" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "cancelled_by must be 'admin' or 'user'"})
	}

	if req.CancelledBy == "admin" {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "admin token required"})
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims.Role != "admin" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "admin token required"})
		}
		if req.AdminEmail == "" {
			req.AdminEmail = claims.Email
		}
	}

	return cancelBooking(c, req)
}

// AdminCancel sits behind the admin middleware; the actor is always admin.
func AdminCancel(c fiber.Ctx) error {
	req := new(CancelRequest)
	if err := c.Bind().JSON(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if req.BookingID == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "booking_id is required"})
	}

	req.CancelledBy = "admin"
	if email, ok := c.Locals("admin_email").(string); ok && req.AdminEmail == "" {
		req.AdminEmail = email
	}

	return cancelBooking(c, req)
}

// refundPercentFor applies the cancellation policy. A second return of
// false means no refund row should be recorded at all.
func refundPercentFor(cancelledBy string, b Booking, now time.Time) (float64, bool) {
	if cancelledBy == "admin" {
		if !b.Paid {
			return 100, false
		}
		return 100, true
	}
	if !b.Paid {
		return 0, false
	}
	if b.StartDate.Sub(now) >= freeCancelWindow {
		return 100, true
	}
	return lateCancelPercent, true
}

func cancelBooking(c fiber.Ctx, req *CancelRequest) error {
	var booking Booking
	storage.DB.Limit(1).Find(&booking, "id = ?", req.BookingID)
	if booking.ID == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Booking not found."})
	}
	if booking.Status == StatusCancelled {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"message": "Booking already cancelled."})
	}

	var payment Payment
	storage.DB.Limit(1).Find(&payment, "booking_id = ?", booking.ID)

	now := time.Now()
	refundPercent, recordRefund := refundPercentFor(req.CancelledBy, booking, now)

	// never refund more than what was actually paid
	refundAmount := 0.0
	if recordRefund {
		refundAmount = payment.Amount * refundPercent / 100
		if refundAmount > payment.Amount {
			refundAmount = payment.Amount
		}
	}

	tx := storage.DB.Begin()
	if tx.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
	}

	if err := tx.Model(&Booking{}).Where("id = ?", booking.ID).Update("status", StatusCancelled).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
	}

	cancellation := BookingCancellation{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		Reason:        req.Reason,
		CanceledBy:    req.CancelledBy,
		AdminEmail:    req.AdminEmail,
		RefundPercent: refundPercent,
		RefundAmount:  refundAmount,
		Status:        StatusCancelled,
		CancelledAt:   now,
	}
	if err := tx.Create(&cancellation).Error; err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
	}

	if recordRefund && refundAmount > 0 {
		dueBy := now.Add(refundDueWindow)
		refund := Refund{
			PaymentID:  payment.ID,
			BookingID:  booking.ID,
			CustomerID: booking.CustomerID,
			Amount:     refundAmount,
			Status:     RefundPending,
			Reason:     req.Reason,
			Reference:  uuid.NewString(),
		}
		if err := tx.Create(&refund).Error; err != nil {
			tx.Rollback()
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
		}

		if err := tx.Model(&Payment{}).Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"refund_amount":       refundAmount,
				"refund_status":       RefundPending,
				"refund_requested_at": now,
				"refund_due_by":       dueBy,
			}).Error; err != nil {
			tx.Rollback()
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
		}
	}

	var discountCodes []string
	if req.CancelledBy == "admin" {
		// apology credits: one half-off for the same dates on any car,
		// one unrestricted 15%
		sameDates, err := discount.Mint(tx, booking.CustomerID, nil, 50, &booking.StartDate, &booking.EndDate)
		if err != nil {
			tx.Rollback()
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
		}
		open, err := discount.Mint(tx, booking.CustomerID, nil, 15, nil, nil)
		if err != nil {
			tx.Rollback()
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
		}
		discountCodes = []string{sameDates.Code, open.Code}
	}

	message := fmt.Sprintf("Your booking #%d has been cancelled.", booking.ID)
	if refundAmount > 0 {
		message = fmt.Sprintf("Your booking #%d has been cancelled. A refund of %.2f will be processed within 72 hours.", booking.ID, refundAmount)
	}
	if err := notification.Push(tx, booking.CustomerID, "Booking Cancelled", message); err != nil {
		tx.Rollback()
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Server error while cancelling booking."})
	}

	var customer auth.Customer
	storage.DB.Limit(1).Find(&customer, "id = ?", booking.CustomerID)
	if customer.ID != 0 {
		go mailer.SendCancellation(customer.Email, customer.Name, booking.ID, req.CancelledBy, refundAmount, discountCodes)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":       "Booking cancelled.",
		"booking_id":    booking.ID,
		"cancelled_by":  req.CancelledBy,
		"refundPercent": refundPercent,
		"refundAmount":  refundAmount,
	})
}

func CanceledBookings(c fiber.Ctx) error {
	var cancellations []BookingCancellation
	if result := storage.DB.Order("cancelled_at desc").Find(&cancellations); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load cancellations"})
	}

	return c.Status(http.StatusOK).JSON(cancellations)
}

func RefundList(c fiber.Ctx) error {
	var refunds []Refund
	if result := storage.DB.Order("created_at").Find(&refunds); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load refunds"})
	}

	return c.Status(http.StatusOK).JSON(refunds)
}

type transactionRow struct {
	PaymentID    uint      `json:"payment_id"`
	BookingID    uint      `json:"booking_id"`
	CustomerID   uint      `json:"customer_id"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	RefundStatus string    `json:"refund_status"`
	RefundAmount float64   `json:"refund_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

func transactionRows(limit, offset int) ([]transactionRow, int64, error) {
	var total int64
	if err := storage.DB.Model(&Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []transactionRow
	err := storage.DB.Raw(`
		SELECT payments.id         AS payment_id,
		       payments.booking_id AS booking_id,
		       bookings.customer_id,
		       payments.amount,
		       payments.status,
		       payments.refund_status,
		       payments.refund_amount,
		       payments.created_at
		FROM payments
		LEFT JOIN bookings ON bookings.id = payments.booking_id
		ORDER BY payments.created_at DESC
		LIMIT ? OFFSET ?`, limit, offset).Scan(&rows).Error
	return rows, total, err
}

func Transactions(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := transactionRows(limit, (page-1)*limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load transactions"})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": rows,
		"page":         page,
		"limit":        limit,
		"total":        total,
	})
}

func ExportTransactions(c fiber.Ctx) error {
	rows, _, err := transactionRows(10000, 0)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load transactions"})
	}

	f := excelize.NewFile()
	sheet := "Transactions"
	f.NewSheet(sheet)

	headers := []string{"PaymentID", "BookingID", "CustomerID", "Amount", "Status", "RefundStatus", "RefundAmount", "CreatedAt"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.PaymentID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.BookingID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.CustomerID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), row.RefundStatus)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), row.RefundAmount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), row.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	filePath := "transactions.xlsx"
	if err := f.SaveAs(filePath); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate Excel file"})
	}

	return c.Download(filePath)
}

type ProcessRefundsRequest struct {
	RefundID uint `json:"refund_id,omitempty"`
}

// ProcessRefunds settles pending refunds. This is a simulated
// settlement step: no payment gateway is called.
func ProcessRefunds(c fiber.Ctx) error {
	// refund_id is optional; a bodyless POST settles the whole batch
	req := new(ProcessRefundsRequest)
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
		}
	}

	var refunds []Refund
	query := storage.DB.Where("status = ?", RefundPending).Order("created_at").Limit(50)
	if req.RefundID != 0 {
		query = storage.DB.Where("id = ? AND status = ?", req.RefundID, RefundPending)
	}
	if result := query.Find(&refunds); result.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load refunds"})
	}

	if len(refunds) == 0 {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "No pending refunds.", "processed": 0})
	}

	processed := 0
	for _, refund := range refunds {
		now := time.Now()

		tx := storage.DB.Begin()
		if err := tx.Model(&Refund{}).Where("id = ?", refund.ID).
			Updates(map[string]interface{}{"status": RefundProcessed, "processed_at": now}).Error; err != nil {
			tx.Rollback()
			continue
		}
		if err := tx.Model(&Payment{}).Where("id = ?", refund.PaymentID).
			Updates(map[string]interface{}{"refund_status": RefundProcessed, "refund_processed_at": now}).Error; err != nil {
			tx.Rollback()
			continue
		}
		message := fmt.Sprintf("Your refund of %.2f for booking #%d has been processed.", refund.Amount, refund.BookingID)
		if err := notification.Push(tx, refund.CustomerID, "Refund Processed", message); err != nil {
			tx.Rollback()
			continue
		}
		if err := tx.Commit().Error; err != nil {
			continue
		}
		processed++

		var customer auth.Customer
		storage.DB.Limit(1).Find(&customer, "id = ?", refund.CustomerID)
		if customer.ID != 0 {
			go mailer.SendRefundProcessed(customer.Email, customer.Name, refund.BookingID, refund.Amount)
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":   "Refunds processed.",
		"processed": processed,
	})
}
