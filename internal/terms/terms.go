// Package terms packs simple interest loan terms into the 32-byte parameter
// word read by the simple interest terms contract, and unpacks them again.
//
// Layout, big-endian:
//
//	byte  0       principal token index
//	bytes 1..16   total expected repayment
//	byte  17      amortization unit
//	bytes 18..31  term length
package terms

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

const (
	tokenIndexOffset = 0
	repaymentOffset  = 1
	unitOffset       = 17
	termLengthOffset = 18
	termLengthWidth  = WordSize - termLengthOffset
)

// MaxTokenIndex is the largest encodable principal token index.
const MaxTokenIndex = 255

var (
	// MaxExpectedRepayment is 2^128 - 1.
	MaxExpectedRepayment = uint128.Max.Big()
	// MaxTermLength is 2^112 - 1, the capacity of the 14 trailing bytes.
	MaxTermLength = maxUnsigned(termLengthWidth)
)

// unitCodes holds the on-chain discriminant of each amortization unit. The
// order is fixed by the terms contract.
var unitCodes = map[models.AmortizationUnit]byte{
	models.Hours:  0,
	models.Days:   1,
	models.Weeks:  2,
	models.Months: 3,
	models.Years:  4,
}

var unitsByCode = [...]models.AmortizationUnit{
	models.Hours,
	models.Days,
	models.Weeks,
	models.Months,
	models.Years,
}

// Params are the decoded simple interest terms.
type Params struct {
	PrincipalTokenIndex    int
	TotalExpectedRepayment decimal.Decimal
	AmortizationUnit       models.AmortizationUnit
	TermLength             decimal.Decimal
}

// Equal reports whether p and o carry the same values.
func (p Params) Equal(o Params) bool {
	return p.PrincipalTokenIndex == o.PrincipalTokenIndex &&
		p.TotalExpectedRepayment.Equal(o.TotalExpectedRepayment) &&
		p.AmortizationUnit == o.AmortizationUnit &&
		p.TermLength.Equal(o.TermLength)
}

// Pack validates p field by field and encodes it. The first invalid field
// determines the returned error.
func Pack(p Params) (Word, error) {
	var w Word

	if p.PrincipalTokenIndex < 0 || p.PrincipalTokenIndex > MaxTokenIndex {
		return w, apperr.WithMetadata(apperr.CodeInvalidTokenIndex,
			fmt.Sprintf("expected principal token index %d to be between 0 and %d", p.PrincipalTokenIndex, MaxTokenIndex),
			map[string]string{"value": strconv.Itoa(p.PrincipalTokenIndex)})
	}

	repayment, ok := wholeWithin(p.TotalExpectedRepayment, MaxExpectedRepayment)
	if !ok {
		return w, apperr.WithMetadata(apperr.CodeInvalidExpectedRepaymentValue,
			fmt.Sprintf("expected total expected repayment %s to be a whole number between 0 and %s", p.TotalExpectedRepayment, MaxExpectedRepayment),
			map[string]string{"value": p.TotalExpectedRepayment.String()})
	}

	unit, ok := unitCodes[p.AmortizationUnit]
	if !ok {
		return w, invalidUnit(string(p.AmortizationUnit))
	}

	if !p.TermLength.IsInteger() {
		return w, apperr.WithMetadata(apperr.CodeNotAWholeNumber,
			fmt.Sprintf("term length %s is not a whole number", p.TermLength),
			map[string]string{"field": "termLength", "value": p.TermLength.String()})
	}
	termLength, ok := wholeWithin(p.TermLength, MaxTermLength)
	if !ok {
		return w, apperr.WithMetadata(apperr.CodeInvalidTermLength,
			fmt.Sprintf("expected term length %s to be between 0 and %s", p.TermLength, MaxTermLength),
			map[string]string{"value": p.TermLength.String()})
	}

	w[tokenIndexOffset] = byte(p.PrincipalTokenIndex)
	repaymentU128, _ := uint128.FromBig(repayment) // bounded by wholeWithin above
	repaymentU128.PutBytesBE(w[repaymentOffset:unitOffset])
	w[unitOffset] = unit
	termLength.FillBytes(w[termLengthOffset:])
	return w, nil
}

// Unpack decodes w. The only content check is the amortization unit byte;
// every other field is bounded by its width.
func Unpack(w Word) (Params, error) {
	code := w[unitOffset]
	if int(code) >= len(unitsByCode) {
		return Params{}, invalidUnit(strconv.Itoa(int(code)))
	}

	repayment := uint128.FromBytesBE(w[repaymentOffset:unitOffset]).Big()
	termLength := new(big.Int).SetBytes(w[termLengthOffset:])

	return Params{
		PrincipalTokenIndex:    int(w[tokenIndexOffset]),
		TotalExpectedRepayment: decimal.NewFromBigInt(repayment, 0),
		AmortizationUnit:       unitsByCode[code],
		TermLength:             decimal.NewFromBigInt(termLength, 0),
	}, nil
}

// UnpackHex parses the hex form of a word and decodes it. Length and format
// are checked before any field.
func UnpackHex(s string) (Params, error) {
	w, err := ParseWord(s)
	if err != nil {
		return Params{}, err
	}
	return Unpack(w)
}

func invalidUnit(value string) error {
	return apperr.WithMetadata(apperr.CodeInvalidAmortizationUnitType,
		fmt.Sprintf("amortization unit %q is not one of hours, days, weeks, months, years", value),
		map[string]string{"value": value})
}

// wholeWithin returns d as a new integer if it is whole and in [0, max].
func wholeWithin(d decimal.Decimal, max *big.Int) (*big.Int, bool) {
	if !d.IsInteger() || d.Sign() < 0 {
		return nil, false
	}
	v := d.BigInt()
	if v.Cmp(max) > 0 {
		return nil, false
	}
	return v, true
}

func maxUnsigned(bytes int) *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), uint(bytes*8))
	return v.Sub(v, big.NewInt(1))
}
