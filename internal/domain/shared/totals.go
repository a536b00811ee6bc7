package shared

import (
	"github.com/shopspring/decimal"

	"github.com/erp/sales/internal/domain/shared/valueobject"
)

// LineAmounts is the monetary breakdown of a single document line:
// quantity times unit price, minus the line discount, plus VAT. Discount is
// always computed before tax. Rounding happens only on the VAT and total,
// never on intermediate ratios, so error does not compound across lines.
type LineAmounts struct {
	Gross          decimal.Decimal // Quantity * UnitPrice
	DiscountAmount decimal.Decimal // flat amount + rate share of gross
	Net            decimal.Decimal // Gross - DiscountAmount
	VatAmount      decimal.Decimal // Net * VatRate/100, rounded to 2 places
	LineTotal      decimal.Decimal // Net + VatAmount
}

// ComputeLine calculates the amounts for one document line. The flat
// discount and rate discount stack; the combined discount may not exceed
// the gross amount.
func ComputeLine(quantity, unitPrice, discountAmount decimal.Decimal, discountRate, vatRate valueobject.Percent) (LineAmounts, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineAmounts{}, NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountAmount.IsNegative() {
		return LineAmounts{}, NewValidationError("INVALID_DISCOUNT", "Line discount cannot be negative")
	}

	gross := quantity.Mul(unitPrice)
	discount := discountAmount.Add(discountRate.Of(gross))
	if discount.GreaterThan(gross) {
		return LineAmounts{}, NewValidationError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}

	net := gross.Sub(discount)
	vat := vatRate.Of(net).Round(2)

	return LineAmounts{
		Gross:          gross,
		DiscountAmount: discount,
		Net:            net,
		VatAmount:      vat,
		LineTotal:      net.Add(vat),
	}, nil
}

// DocumentTotals is the recomputed monetary summary of a document. It is
// always a pure function of the current lines and document-level
// discount/shipping fields; totals are never patched incrementally.
type DocumentTotals struct {
	SubTotal       decimal.Decimal // sum of line nets
	DiscountAmount decimal.Decimal // document-level discount actually applied
	VatAmount      decimal.Decimal // sum of line VAT amounts
	ShippingAmount decimal.Decimal
	TotalAmount    decimal.Decimal // SubTotal - DiscountAmount + VatAmount + ShippingAmount
}

// ComputeTotals derives the document totals from line amounts plus the
// document-level flat discount, rate discount and shipping. A discount that
// would exceed the subtotal is capped at the subtotal so the total never
// goes negative from discounting alone.
func ComputeTotals(lines []LineAmounts, discountAmount decimal.Decimal, discountRate valueobject.Percent, shipping decimal.Decimal) DocumentTotals {
	subTotal := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		subTotal = subTotal.Add(l.Net)
		vat = vat.Add(l.VatAmount)
	}

	discount := discountAmount.Add(discountRate.Of(subTotal)).Round(2)
	if discount.GreaterThan(subTotal) {
		discount = subTotal
	}

	return DocumentTotals{
		SubTotal:       subTotal,
		DiscountAmount: discount,
		VatAmount:      vat,
		ShippingAmount: shipping,
		TotalAmount:    subTotal.Sub(discount).Add(vat).Add(shipping),
	}
}
