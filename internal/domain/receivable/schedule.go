// Package receivable contiene el cálculo puro de cuotas a partir de un pago a plazo.
package receivable

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Installment cuota calculada (aún no persistida).
type Installment struct {
	Number  int // 1..N
	DueDate time.Time
	Amount  decimal.Decimal
}

// Schedule divide total en n cuotas con vencimiento date + k*intervalDays (días de calendario).
// Las primeras n-1 cuotas son floor(total/n) al centavo; la última absorbe el residuo,
// de modo que la suma es exactamente total. Con n <= 1 devuelve una sola cuota por el total.
func Schedule(total decimal.Decimal, n, intervalDays int, date time.Time) []Installment {
	if n < 1 {
		n = 1
	}
	base := total.Mul(hundred).Div(decimal.NewFromInt(int64(n))).Floor().Div(hundred)

	out := make([]Installment, n)
	allocated := decimal.Zero
	for k := 0; k < n; k++ {
		amount := base
		if k == n-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		out[k] = Installment{
			Number:  k + 1,
			DueDate: date.AddDate(0, 0, k*intervalDays),
			Amount:  amount,
		}
	}
	return out
}

// Sum suma los montos de las cuotas.
func Sum(installments []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, i := range installments {
		total = total.Add(i.Amount)
	}
	return total
}
