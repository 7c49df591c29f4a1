package domain

import "github.com/shopspring/decimal"

// CartLine is the joined view of one cart entry. Name and Price come from the
// catalog at read time, LineTotal is derived from them and never stored.
type CartLine struct {
	ID        int64
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// NewCartLine builds the joined view and derives the line total.
func NewCartLine(id, productID int64, name string, price decimal.Decimal, quantity int) CartLine {
	return CartLine{
		ID:        id,
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		LineTotal: price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

type Cart struct {
	Items []CartLine
	Total decimal.Decimal
}

// NewCart sums the line totals of items and rounds the result with Round2.
func NewCart(items []CartLine) Cart {
	if items == nil {
		items = []CartLine{}
	}
	return Cart{
		Items: items,
		Total: SumLineTotals(items),
	}
}

func SumLineTotals(items []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return Round2(total)
}

// Round2 rounds half up to two fractional digits.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
