package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Image       string
	Category    string
	Description string
	Stock       int
	Rating      float64
}
