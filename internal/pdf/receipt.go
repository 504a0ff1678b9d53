package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReceiptData carries everything printed on an office payment receipt.
type ReceiptData struct {
	ReceiptNumber string
	OfficeName    string
	ClientName    string
	ServiceTitle  string
	Amount        float64
	Currency      string
	PaymentMethod string
	PaidAt        time.Time
}

// RenderReceipt produces the PDF bytes for a payment receipt. A render
// failure is reported to the caller but must not roll back the payment
// approval that triggered it.
func RenderReceipt(data ReceiptData) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Receipt %s", data.ReceiptNumber), true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, data.OfficeName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 8, "Payment Receipt", "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 10)
	row := func(label, value string) {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Receipt number:", data.ReceiptNumber)
	row("Date:", data.PaidAt.Format("2006-01-02 15:04"))
	row("Client:", data.ClientName)
	row("Service:", data.ServiceTitle)
	row("Payment method:", data.PaymentMethod)
	row("Amount:", fmt.Sprintf("%.2f %s", data.Amount, data.Currency))

	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 6, "This receipt confirms that payment was received and verified by the office.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
