// Package schedule derives installment due dates from an issuance timestamp
// and simple interest terms.
package schedule

import (
	"fmt"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/calendar"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/shopspring/decimal"
)

// MaxInstallments bounds every computed schedule. Packed terms
// can hold far more periods than any real loan.
const MaxInstallments = 100000

// Compute returns termLength due dates in unix seconds. The k-th date is the
// issuance timestamp plus k amortization units.
func Compute(issuance int64, unit models.AmortizationUnit, termLength int64) ([]int64, error) {
	if !unit.Valid() {
		return nil, apperr.WithMetadata(apperr.CodeInvalidAmortizationUnitType,
			fmt.Sprintf("amortization unit %q is not one of hours, days, weeks, months, years", unit),
			map[string]string{"value": string(unit)})
	}
	if termLength < 0 {
		return nil, apperr.WithMetadata(apperr.CodeInvalidTermLength,
			fmt.Sprintf("term length %d must not be negative", termLength),
			map[string]string{"value": fmt.Sprint(termLength)})
	}
	if termLength > MaxInstallments {
		return nil, tooLong(fmt.Sprint(termLength))
	}

	dates := make([]int64, 0, termLength)
	for k := int64(1); k <= termLength; k++ {
		due, err := calendar.AddUnitUnix(issuance, unit, k)
		if err != nil {
			return nil, err
		}
		dates = append(dates, due)
	}
	return dates, nil
}

// ForEntry unpacks the entry's terms and computes its schedule.
func ForEntry(entry models.DebtRegistryEntry) ([]int64, error) {
	params, err := terms.UnpackHex(entry.TermsContractParameters)
	if err != nil {
		return nil, err
	}
	n, err := termCount(params.TermLength)
	if err != nil {
		return nil, err
	}
	return Compute(entry.IssuanceBlockTimestamp, params.AmortizationUnit, n)
}

// Installments pairs each due date of entry with the amount expected on it.
// The total expected repayment is split evenly; the remainder of the integer
// division falls on the last installment.
func Installments(entry models.DebtRegistryEntry) ([]models.Installment, error) {
	params, err := terms.UnpackHex(entry.TermsContractParameters)
	if err != nil {
		return nil, err
	}
	n, err := termCount(params.TermLength)
	if err != nil {
		return nil, err
	}
	dates, err := Compute(entry.IssuanceBlockTimestamp, params.AmortizationUnit, n)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return []models.Installment{}, nil
	}

	count := decimal.NewFromInt(int64(len(dates)))
	per := params.TotalExpectedRepayment.Div(count).Floor()
	last := params.TotalExpectedRepayment.Sub(per.Mul(count.Sub(decimal.NewFromInt(1))))

	out := make([]models.Installment, len(dates))
	for i, due := range dates {
		amount := per
		if i == len(dates)-1 {
			amount = last
		}
		out[i] = models.Installment{Number: i + 1, DueAt: due, Amount: amount}
	}
	return out, nil
}

func termCount(termLength decimal.Decimal) (int64, error) {
	if termLength.GreaterThan(decimal.NewFromInt(MaxInstallments)) {
		return 0, tooLong(termLength.String())
	}
	return termLength.IntPart(), nil
}

func tooLong(value string) error {
	return apperr.WithMetadata(apperr.CodeInvalidTermLength,
		fmt.Sprintf("term length %s exceeds the %d installments that can be scheduled", value, MaxInstallments),
		map[string]string{"value": value})
}
