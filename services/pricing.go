package services

import (
	"github.com/shopspring/decimal"

	"hotel-reservations/models"
)

// TaxRate is the fixed 10% applied to every booking subtotal.
var TaxRate = decimal.NewFromFloat(0.10)

// CalculatePricing is a pure function of its inputs: no hidden state, no I/O.
// It runs once at creation and again whenever room composition or dates
// change.
//
//	subtotal = sum(pricePerNight * nights)
//	taxes    = subtotal * 0.10
//	total    = subtotal + taxes - discount + fees
func CalculatePricing(rooms []RoomSelection, nights int, discount, fees decimal.Decimal) models.Pricing {
	n := decimal.NewFromInt(int64(nights))

	subtotal := decimal.Zero
	for _, r := range rooms {
		subtotal = subtotal.Add(r.PricePerNight.Mul(n))
	}
	subtotal = subtotal.Round(2)

	taxes := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(taxes).Sub(discount).Add(fees).Round(2)

	return models.Pricing{
		Subtotal:   subtotal,
		Taxes:      taxes,
		Discount:   discount,
		Fees:       fees,
		TotalPrice: total,
	}
}
