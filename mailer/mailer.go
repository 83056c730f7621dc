// Package mailer is the boundary to the transactional email
// collaborator. Every send is best-effort: failures are logged and
// never reach the caller, so committed booking state is never rolled
// back by a mail outage.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/a6cars/backend/config"
)

func send(to, subject, body string) {
	host := config.SMTPHost()
	user := config.SMTPUser()
	if user == "" {
		log.Printf("email to %s skipped: SMTP_USER not configured", to)
		return
	}

	auth := smtp.PlainAuth("", user, config.SMTPPassword(), host)

	msg := "From: " + config.SMTPFrom() + "\n" +
		"To: " + to + "\n" +
		"Subject: " + subject + "\n" +
		"MIME-version: 1.0;\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\n\n" +
		body

	addr := fmt.Sprintf("%s:%s", host, config.SMTPPort())
	if err := smtp.SendMail(addr, auth, config.SMTPFrom(), []string{to}, []byte(msg)); err != nil {
		log.Printf("error sending email to %s: %v", to, err)
	}
}

func SendBookingConfirmation(to, name string, bookingID uint, carName string, start, end time.Time, amount float64) {
	subject := fmt.Sprintf("Booking Confirmation - A6 Cars #%d", bookingID)
	body := fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Thank you for booking with A6 Cars! Below are your booking details:</p>
		<p>Booking ID: #%d<br>
		Vehicle: %s<br>
		Pickup Date: %s<br>
		Return Date: %s<br>
		Total Amount: &#8377;%.2f<br>
		Status: Pending Payment</p>
		<p>Complete payment using the UPI QR code shown at checkout.
		Your booking will be confirmed once payment is verified.</p>
		<p>Thank you for choosing A6 Cars!</p>`,
		name, bookingID, carName,
		start.Format("2006-01-02"), end.Format("2006-01-02"), amount)
	send(to, subject, body)
}

func SendPaymentConfirmed(to, name string, bookingID uint, carName, reference string, amount float64) {
	subject := fmt.Sprintf("Payment Confirmed - A6 Cars #%d", bookingID)
	body := fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Your payment of &#8377;%.2f for booking #%d (%s) has been verified.</p>
		<p>Payment Reference: %s</p>
		<p>Show the collection QR code at pickup and the return QR code at drop-off.</p>`,
		name, amount, bookingID, carName, reference)
	send(to, subject, body)
}

func SendCancellation(to, name string, bookingID uint, cancelledBy string, refundAmount float64, discountCodes []string) {
	subject := fmt.Sprintf("Booking Cancelled - A6 Cars #%d", bookingID)
	body := fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Your booking #%d has been cancelled (%s).</p>`,
		name, bookingID, cancelledBy)
	if refundAmount > 0 {
		body += fmt.Sprintf(`<p>A refund of &#8377;%.2f will be processed within 72 hours.</p>`, refundAmount)
	}
	for _, code := range discountCodes {
		body += fmt.Sprintf(`<p>Discount code for your next booking: <strong>%s</strong></p>`, code)
	}
	send(to, subject, body)
}

func SendRefundProcessed(to, name string, bookingID uint, amount float64) {
	subject := fmt.Sprintf("Refund Processed - A6 Cars #%d", bookingID)
	body := fmt.Sprintf(`
		<p>Dear <strong>%s</strong>,</p>
		<p>Your refund of &#8377;%.2f for booking #%d has been processed.</p>`,
		name, amount, bookingID)
	send(to, subject, body)
}
