package utils

import "math"

// Billing rates applied to every payable total: 5% service charge on the
// subtotal, then 18% tax on subtotal plus service charge.
const (
	ServiceChargeRate = 0.05
	TaxRate           = 0.18
)

// Bill is the aggregate payable amount for a set of orders.
type Bill struct {
	Subtotal      float64 `json:"subtotal"`
	ServiceCharge float64 `json:"service_charge"`
	Tax           float64 `json:"tax"`
	GrandTotal    float64 `json:"grand_total"`
}

// ComputeBill derives service charge, tax and grand total from a subtotal.
// All figures are rounded to two decimals.
func ComputeBill(subtotal float64) Bill {
	service := Round2(subtotal * ServiceChargeRate)
	tax := Round2((subtotal + service) * TaxRate)
	return Bill{
		Subtotal:      Round2(subtotal),
		ServiceCharge: service,
		Tax:           tax,
		GrandTotal:    Round2(subtotal + service + tax),
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
