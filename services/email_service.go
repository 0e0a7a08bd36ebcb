package services

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"qr-order-backend/models"
	"qr-order-backend/utils"
)

// EmailService sends the invoice mail when an order is served. It is a
// best-effort side channel: missing SMTP config or a missing customer email
// just skips the send, and failures never reach the triggering request.
type EmailService struct {
	DB *gorm.DB

	host string
	port int
	user string
	pass string
	from string
}

func NewEmailService(db *gorm.DB) *EmailService {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &EmailService{
		DB:   db,
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("SMTP_FROM"),
	}
}

// Enabled reports whether SMTP is configured at all.
func (es *EmailService) Enabled() bool {
	return es.host != "" && es.user != ""
}

// SendInvoice emails the order invoice to its customer. Safe to call from a
// goroutine; all failure paths end in a log line.
func (es *EmailService) SendInvoice(orderID uint) {
	if !es.Enabled() {
		return
	}

	var order models.Order
	if err := es.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.ErrorLogger.Printf("invoice email: error fetching order %d: %v", orderID, err)
		return
	}

	var customer models.Customer
	if err := es.DB.First(&customer, order.CustomerID).Error; err != nil {
		utils.ErrorLogger.Printf("invoice email: error fetching customer %d: %v", order.CustomerID, err)
		return
	}
	if customer.Email == "" {
		return
	}

	body, err := renderInvoice(order, customer)
	if err != nil {
		utils.ErrorLogger.Printf("invoice email: error rendering invoice for order %d: %v", orderID, err)
		return
	}

	from := es.from
	if from == "" {
		from = es.user
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", customer.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your invoice for order #%d", order.ID))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(es.host, es.port, es.user, es.pass)
	if err := d.DialAndSend(m); err != nil {
		utils.ErrorLogger.Printf("invoice email: error sending for order %d: %v", orderID, err)
		return
	}

	utils.InfoLogger.Printf("Invoice email sent for order %d to %s", order.ID, customer.Email)
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"currency": utils.FormatCurrency,
	"lineTotal": func(item models.OrderItem) float64 {
		return utils.Round2(item.UnitPrice * float64(item.Quantity))
	},
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <table width="600" align="center" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px;">
    <tr>
      <td style="background-color: #dc2626; padding: 24px; text-align: center;">
        <h1 style="margin: 0; color: #ffffff;">{{.RestaurantName}}</h1>
        <p style="margin: 8px 0 0 0; color: #fecaca;">Payment Invoice</p>
      </td>
    </tr>
    <tr>
      <td style="padding: 24px;">
        <p style="color: #666666;">Order <strong>#{{.Order.ID}}</strong> &middot; Table {{.Order.TableID}} &middot; {{.Date}}</p>
        {{if .Customer.Name}}<p style="color: #666666;">Billed to: {{.Customer.Name}} ({{.Customer.Phone}})</p>{{end}}
        <table width="100%" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
          <tr style="border-bottom: 2px solid #dc2626; color: #333333; text-align: left;">
            <th>Item</th><th>Qty</th><th style="text-align: right;">Price</th><th style="text-align: right;">Amount</th>
          </tr>
          {{range .Order.Items}}
          <tr style="border-bottom: 1px solid #eeeeee; color: #333333;">
            <td>{{.Name}}</td>
            <td>{{.Quantity}}</td>
            <td style="text-align: right;">{{currency .UnitPrice}}</td>
            <td style="text-align: right;">{{currency (lineTotal .)}}</td>
          </tr>
          {{end}}
        </table>
        <table width="100%" cellpadding="4" cellspacing="0" style="margin-top: 16px; color: #333333;">
          <tr><td>Subtotal</td><td style="text-align: right;">{{currency .Order.Subtotal}}</td></tr>
          <tr><td>Service Charge (5%)</td><td style="text-align: right;">{{currency .Order.ServiceCharge}}</td></tr>
          <tr><td>Tax (18%)</td><td style="text-align: right;">{{currency .Order.Tax}}</td></tr>
          <tr style="font-weight: bold; border-top: 2px solid #dc2626;">
            <td>Total</td><td style="text-align: right;">{{currency .Order.TotalAmount}}</td>
          </tr>
        </table>
        <p style="color: #999999; font-size: 12px; margin-top: 24px;">Thank you for dining with us!</p>
      </td>
    </tr>
  </table>
</body>
</html>`))

func renderInvoice(order models.Order, customer models.Customer) (string, error) {
	name := os.Getenv("RESTAURANT_NAME")
	if name == "" {
		name = "QR Order Restaurant"
	}

	data := struct {
		RestaurantName string
		Order          models.Order
		Customer       models.Customer
		Date           string
	}{
		RestaurantName: name,
		Order:          order,
		Customer:       customer,
		Date:           order.CreatedAt.Format("02 Jan 2006, 15:04"),
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
