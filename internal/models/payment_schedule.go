package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is a single scheduled repayment of a debt agreement
type Installment struct {
	Number int             `json:"number"` // 1-indexed
	DueAt  int64           `json:"dueAt"`  // Unix seconds
	Amount decimal.Decimal `json:"amount"`
}

// DueTime returns the due date as a UTC time.
func (i Installment) DueTime() time.Time {
	return time.Unix(i.DueAt, 0).UTC()
}
