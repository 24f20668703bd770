package services

import (
	"bytes"
	"fmt"
	"html/template"

	"hotel-pms/models"
)

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.Number}}</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:700px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
table { width:100%; border-collapse:collapse; margin-top:16px; }
th, td { text-align:left; padding:8px; border-bottom:1px solid #e6eef6; }
td.amount, th.amount { text-align:right; }
.total { font-weight:700; }
.muted { color:#667; font-size:13px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Invoice {{.Invoice.Number}}</h2>
    <p>{{.Settings.Name}}<br>{{.Settings.Address}}<br>{{.Settings.Phone}} · {{.Settings.Email}}</p>
    <p>
      Billed to: {{.Invoice.GuestName}} ({{.Invoice.GuestEmail}})<br>
      Room {{.Invoice.RoomNumber}},
      {{.Invoice.CheckIn.Format "2006-01-02"}} — {{.Invoice.CheckOut.Format "2006-01-02"}}
    </p>
    <table>
      <tr><th>Description</th><th class="amount">Amount ({{.Invoice.Currency}})</th></tr>
      <tr>
        <td>Room charge · {{.Invoice.Nights}} night(s) × {{printf "%.2f" .Invoice.RoomRate}}</td>
        <td class="amount">{{printf "%.2f" .Invoice.BaseAmount}}</td>
      </tr>
      {{range .Extras}}
      <tr><td>{{.Description}}</td><td class="amount">{{printf "%.2f" .Amount}}</td></tr>
      {{end}}
      <tr><td>Subtotal</td><td class="amount">{{printf "%.2f" .Invoice.SubTotal}}</td></tr>
      <tr><td>Tax ({{printf "%.2f" .Invoice.TaxRate}}%)</td><td class="amount">{{printf "%.2f" .Invoice.TaxAmount}}</td></tr>
      <tr class="total"><td>Total</td><td class="amount">{{printf "%.2f" .Invoice.TotalAmount}}</td></tr>
    </table>
    <p class="muted">Payment status: {{.Invoice.PaymentStatus}} · Check-in {{.Settings.CheckInTime}} / Check-out {{.Settings.CheckOutTime}}</p>
  </div>
</div>
</body>
</html>`))

// RenderInvoiceDocument renders the invoice as a standalone HTML document,
// used for email attachments and on-demand downloads.
func RenderInvoiceDocument(invoice *models.Invoice, settings models.HotelSetting) ([]byte, error) {
	data := struct {
		Invoice  *models.Invoice
		Settings models.HotelSetting
		Extras   []models.InvoiceExtra
	}{invoice, settings, invoice.ExtraItems()}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice document: %w", err)
	}
	return buf.Bytes(), nil
}
