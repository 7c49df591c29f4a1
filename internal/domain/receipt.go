package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampFormat is the fixed textual encoding of receipt timestamps (UTC, millisecond precision).
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

type Receipt struct {
	OrderID      string
	CustomerName string
	Email        string
	Total        decimal.Decimal
	Timestamp    time.Time
	Items        []CartLine
}

func (r *Receipt) FormattedTimestamp() string {
	return r.Timestamp.UTC().Format(TimestampFormat)
}
