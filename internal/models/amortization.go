package models

// AmortizationUnit is the calendar granularity at which installments fall due.
type AmortizationUnit string

const (
	Hours  AmortizationUnit = "hours"
	Days   AmortizationUnit = "days"
	Weeks  AmortizationUnit = "weeks"
	Months AmortizationUnit = "months"
	Years  AmortizationUnit = "years"
)

// AmortizationUnits lists every recognized unit, shortest first.
var AmortizationUnits = []AmortizationUnit{Hours, Days, Weeks, Months, Years}

// Valid reports whether u is one of the recognized units.
func (u AmortizationUnit) Valid() bool {
	switch u {
	case Hours, Days, Weeks, Months, Years:
		return true
	}
	return false
}
