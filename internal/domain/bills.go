package domain

import "github.com/shopspring/decimal"

// BillCount is a count of banknotes per denomination, used by the daily
// opening/closing flow where cashiers count the physical drawer.
type BillCount struct {
	N200 int
	N100 int
	N50  int
	N20  int
	N10  int
	N5   int
}

// Total returns the cash value of the counted bills.
func (b BillCount) Total() decimal.Decimal {
	total := decimal.NewFromInt(int64(b.N200) * 200)
	total = total.Add(decimal.NewFromInt(int64(b.N100) * 100))
	total = total.Add(decimal.NewFromInt(int64(b.N50) * 50))
	total = total.Add(decimal.NewFromInt(int64(b.N20) * 20))
	total = total.Add(decimal.NewFromInt(int64(b.N10) * 10))
	total = total.Add(decimal.NewFromInt(int64(b.N5) * 5))

	return total
}

// IsZero reports whether no bills were counted.
func (b BillCount) IsZero() bool {
	return b.N200 == 0 && b.N100 == 0 && b.N50 == 0 && b.N20 == 0 && b.N10 == 0 && b.N5 == 0
}
