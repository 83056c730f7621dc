package booking

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	QRTypeCollection = "collection"
	QRTypeReturn     = "return"
)

// BuildUPILink builds the deep link a payment app prefills from.
func BuildUPILink(vpa string, amount float64, bookingID uint) string {
	v := url.Values{}
	v.Set("pa", vpa)
	v.Set("pn", "A6Cars")
	v.Set("am", fmt.Sprintf("%.2f", amount))
	v.Set("tn", fmt.Sprintf("Booking %d", bookingID))
	return "upi://pay?" + v.Encode()
}

// EncodeQR renders content as a PNG QR code and returns it as a base64
// data URL, ready to drop into an <img> tag.
func EncodeQR(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// QRPayload is the metadata embedded in collection and return codes.
// Staff scan these at pickup and drop-off.
type QRPayload struct {
	Type             string `json:"type"`
	BookingID        uint   `json:"booking_id"`
	CustomerID       uint   `json:"customer_id"`
	CarID            uint   `json:"car_id"`
	PickupDate       string `json:"pickup_date,omitempty"`
	ReturnDate       string `json:"return_date,omitempty"`
	PaymentReference string `json:"payment_reference"`
}

func collectionPayload(b Booking, reference string) QRPayload {
	return QRPayload{
		Type:             QRTypeCollection,
		BookingID:        b.ID,
		CustomerID:       b.CustomerID,
		CarID:            b.CarID,
		PickupDate:       b.StartDate.Format("2006-01-02"),
		PaymentReference: reference,
	}
}

func returnPayload(b Booking, reference string) QRPayload {
	return QRPayload{
		Type:             QRTypeReturn,
		BookingID:        b.ID,
		CustomerID:       b.CustomerID,
		CarID:            b.CarID,
		ReturnDate:       b.EndDate.Format("2006-01-02"),
		PaymentReference: reference,
	}
}

func encodePayloadQR(p QRPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return EncodeQR(string(raw))
}
