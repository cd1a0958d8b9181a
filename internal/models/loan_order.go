package models

import "github.com/shopspring/decimal"

// LoanOrder is the domain-level simple interest loan request.
type LoanOrder struct {
	PrincipalAmount      decimal.Decimal  `json:"principalAmount"` // Smallest token unit
	PrincipalTokenSymbol string           `json:"principalTokenSymbol,omitempty"`
	InterestRate         decimal.Decimal  `json:"interestRate"` // Total-term fraction, 0.12 = 12%
	AmortizationUnit     AmortizationUnit `json:"amortizationUnit,omitempty"`
	TermLength           int64            `json:"termLength,omitempty"` // Number of amortization units
}
