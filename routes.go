package main

import (
	"github.com/gofiber/fiber/v3"

	"github.com/a6cars/backend/auth"
	"github.com/a6cars/backend/booking"
	"github.com/a6cars/backend/car"
	"github.com/a6cars/backend/discount"
	"github.com/a6cars/backend/notification"
)

func registerRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/register", auth.Register)
	api.Post("/login", auth.Login)

	api.Get("/cars", car.List)
	api.Get("/cars/search", car.Search)

	api.Post("/book", booking.Book)
	api.Get("/mybookings/:customer_id", booking.MyBookings)
	api.Get("/bookings/:car_id", booking.CarBookings)
	api.Post("/bookings/batch", booking.Batch)
	api.Get("/history/:customer_id", booking.History)

	api.Get("/payment/status/:booking_id", booking.PaymentStatus)
	api.Post("/payment/confirm", booking.ConfirmPayment)
	api.Get("/payment/receipt/:booking_id", booking.Receipt)
	api.Post("/verify-payment", booking.VerifyPayment)

	api.Post("/cancel-booking", booking.Cancel)

	api.Get("/discounts/:customer_id", discount.ListByCustomer)
	api.Get("/notifications/:customer_id", notification.ListByCustomer)
	api.Patch("/notifications/:id/read", notification.MarkRead)

	admin := api.Group("/admin")
	admin.Post("/login", auth.AdminLogin)
	admin.Post("/addcar", auth.RequireAdmin, car.Add)
	admin.Post("/cancel-booking", auth.RequireAdmin, booking.AdminCancel)
	admin.Get("/canceled-bookings", auth.RequireAdmin, booking.CanceledBookings)
	admin.Get("/refunds", auth.RequireAdmin, booking.RefundList)
	admin.Get("/transactions", auth.RequireAdmin, booking.Transactions)
	admin.Get("/transactions/export", auth.RequireAdmin, booking.ExportTransactions)
	admin.Post("/process-refunds", auth.RequireAdmin, booking.ProcessRefunds)
	admin.Get("/car-schedule/:car_id", auth.RequireAdmin, booking.CarSchedule)
	admin.Post("/verify-qr", auth.RequireAdmin, booking.VerifyQR)
}
