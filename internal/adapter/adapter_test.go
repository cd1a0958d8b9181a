package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/registry"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	repAddress    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	mkrAddress    = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	zrxAddress    = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	termsAddress  = "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"
	kernelAddress = "0x52908400098527886E0F7030069857D2E4169EE7"
	routerAddress = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
)

func newRegistry(t *testing.T) *registry.Memory {
	t.Helper()
	reg := registry.NewMemory()
	require.NoError(t, reg.AddToken(models.Token{Index: 0, Symbol: "REP", Address: repAddress}))
	require.NoError(t, reg.AddToken(models.Token{Index: 1, Symbol: "MKR", Address: mkrAddress}))
	require.NoError(t, reg.AddToken(models.Token{Index: 2, Symbol: "ZRX", Address: zrxAddress}))
	require.NoError(t, reg.SetContract(registry.SimpleInterestTermsContract, termsAddress))
	require.NoError(t, reg.SetContract(registry.DebtKernel, kernelAddress))
	require.NoError(t, reg.SetContract(registry.RepaymentRouter, routerAddress))
	return reg
}

func newAdapter(t *testing.T) *Adapter {
	reg := newRegistry(t)
	return New(reg, reg)
}

func loanOrder() models.LoanOrder {
	return models.LoanOrder{
		PrincipalAmount:      decimal.RequireFromString("3000000000000000000"),
		PrincipalTokenSymbol: "REP",
		InterestRate:         decimal.RequireFromString("0.152"),
		AmortizationUnit:     models.Days,
		TermLength:           7,
	}
}

func TestToDebtOrder(t *testing.T) {
	order, err := newAdapter(t).ToDebtOrder(context.Background(), loanOrder())
	require.NoError(t, err)

	assert.Equal(t, kernelAddress, order.KernelVersion)
	assert.Equal(t, routerAddress, order.IssuanceVersion)
	assert.Equal(t, repAddress, order.PrincipalToken)
	assert.Equal(t, termsAddress, order.TermsContract)
	assert.True(t, decimal.RequireFromString("3000000000000000000").Equal(order.PrincipalAmount))
	// 3e18 * 1.152 = 3.456e18, the reference vector
	assert.Equal(t, "0x0000000000000000002ff62db077c00000010000000000000000000000000007", order.TermsContractParameters)

	// Protocol defaults pass through untouched
	assert.Equal(t, models.NullAddress, order.Debtor)
	assert.Equal(t, models.NullAddress, order.Underwriter)
	assert.Equal(t, models.NullSignature, order.CreditorSignature)
	assert.True(t, order.Salt.IsZero())
}

func TestToDebtOrderSchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *models.LoanOrder)
		field  string
	}{
		{"missing symbol", func(o *models.LoanOrder) { o.PrincipalTokenSymbol = "" }, "principalTokenSymbol"},
		{"missing unit", func(o *models.LoanOrder) { o.AmortizationUnit = "" }, "amortizationUnit"},
		{"unknown unit", func(o *models.LoanOrder) { o.AmortizationUnit = "decades" }, "amortizationUnit"},
		{"missing term length", func(o *models.LoanOrder) { o.TermLength = 0 }, "termLength"},
		{"zero principal", func(o *models.LoanOrder) { o.PrincipalAmount = decimal.Zero }, "principalAmount"},
		{"fractional principal", func(o *models.LoanOrder) { o.PrincipalAmount = decimal.RequireFromString("1.5") }, "principalAmount"},
		{"negative rate", func(o *models.LoanOrder) { o.InterestRate = decimal.RequireFromString("-0.1") }, "interestRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := loanOrder()
			tt.mutate(&o)

			_, err := newAdapter(t).ToDebtOrder(context.Background(), o)
			require.Equal(t, apperr.CodeDoesNotConformToSchema, apperr.CodeOf(err))

			var e *apperr.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.field, e.Metadata["field"])
		})
	}
}

func TestToDebtOrderUnknownToken(t *testing.T) {
	o := loanOrder()
	o.PrincipalTokenSymbol = "DAI"

	_, err := newAdapter(t).ToDebtOrder(context.Background(), o)
	assert.Equal(t, apperr.CodeTokenNotFound, apperr.CodeOf(err))
}

func TestToDebtOrderMissingContract(t *testing.T) {
	reg := registry.NewMemory()
	require.NoError(t, reg.AddToken(models.Token{Index: 0, Symbol: "REP", Address: repAddress}))

	_, err := New(reg, reg).ToDebtOrder(context.Background(), loanOrder())
	assert.Equal(t, apperr.CodeContractNotFound, apperr.CodeOf(err))
}

func TestToDebtOrderPropagatesCodecErrors(t *testing.T) {
	o := loanOrder()
	o.PrincipalAmount = decimal.RequireFromString("340282366920938463463374607431768211455")
	o.InterestRate = decimal.RequireFromString("1")

	_, err := newAdapter(t).ToDebtOrder(context.Background(), o)
	assert.Equal(t, apperr.CodeInvalidExpectedRepaymentValue, apperr.CodeOf(err))
}

func TestRoundTrip(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	tests := []models.LoanOrder{
		loanOrder(),
		{
			PrincipalAmount:      decimal.RequireFromString("1000"),
			PrincipalTokenSymbol: "ZRX",
			InterestRate:         decimal.RequireFromString("0.12"),
			AmortizationUnit:     models.Months,
			TermLength:           12,
		},
		{
			PrincipalAmount:      decimal.RequireFromString("250000000000000000000"),
			PrincipalTokenSymbol: "MKR",
			InterestRate:         decimal.Zero,
			AmortizationUnit:     models.Years,
			TermLength:           3,
		},
	}
	for _, want := range tests {
		t.Run(want.PrincipalTokenSymbol, func(t *testing.T) {
			debt, err := a.ToDebtOrder(ctx, want)
			require.NoError(t, err)

			got, err := a.FromDebtOrder(ctx, debt)
			require.NoError(t, err)

			assert.True(t, want.PrincipalAmount.Equal(got.PrincipalAmount))
			assert.Equal(t, want.PrincipalTokenSymbol, got.PrincipalTokenSymbol)
			assert.True(t, want.InterestRate.Equal(got.InterestRate), "want %s, got %s", want.InterestRate, got.InterestRate)
			assert.Equal(t, want.AmortizationUnit, got.AmortizationUnit)
			assert.Equal(t, want.TermLength, got.TermLength)
		})
	}
}

func TestRoundTripRateWithinRepaymentRounding(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	want := models.LoanOrder{
		PrincipalAmount:      decimal.NewFromInt(3),
		PrincipalTokenSymbol: "REP",
		InterestRate:         decimal.RequireFromString("0.5"),
		AmortizationUnit:     models.Hours,
		TermLength:           1,
	}
	debt, err := a.ToDebtOrder(ctx, want)
	require.NoError(t, err)

	got, err := a.FromDebtOrder(ctx, debt)
	require.NoError(t, err)

	// repayment 4.5 floors to 4, so the rate can drift by at most 1/principal
	drift := got.InterestRate.Sub(want.InterestRate).Abs()
	assert.True(t, drift.LessThanOrEqual(decimal.NewFromInt(1).Div(want.PrincipalAmount)), "drift %s", drift)
}

func TestFromDebtOrderMismatchedToken(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	debt, err := a.ToDebtOrder(ctx, loanOrder())
	require.NoError(t, err)
	debt.PrincipalToken = mkrAddress

	_, err = a.FromDebtOrder(ctx, debt)
	require.Equal(t, apperr.CodeMismatchedTokenSymbol, apperr.CodeOf(err))

	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, mkrAddress, e.Metadata["actualTokenAddress"])
	assert.Equal(t, "REP", e.Metadata["impliedSymbol"])
}

// tokensOnly hides the index lookup of the wrapped registry.
type tokensOnly struct{ TokenRegistry }

func TestFromDebtOrderMismatchWithoutIndexLookup(t *testing.T) {
	reg := newRegistry(t)
	a := New(tokensOnly{reg}, reg)
	ctx := context.Background()

	debt, err := a.ToDebtOrder(ctx, loanOrder())
	require.NoError(t, err)
	debt.PrincipalToken = zrxAddress

	_, err = a.FromDebtOrder(ctx, debt)
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, apperr.CodeMismatchedTokenSymbol, e.Code)
	assert.Equal(t, "#0", e.Metadata["impliedSymbol"])
}

func TestFromDebtOrderErrors(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	valid, err := a.ToDebtOrder(ctx, loanOrder())
	require.NoError(t, err)

	badUnit, err := terms.ParseWord("0x0000000000000000002ff62db077c00000090000000000000000000000000007")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(o *models.DebtOrder)
		code   apperr.Code
	}{
		{"missing parameters", func(o *models.DebtOrder) { o.TermsContractParameters = "" }, apperr.CodeDoesNotConformToSchema},
		{"short parameters", func(o *models.DebtOrder) { o.TermsContractParameters = "0x00" }, apperr.CodeDoesNotConformToSchema},
		{"malformed token address", func(o *models.DebtOrder) { o.PrincipalToken = "0x1234" }, apperr.CodeDoesNotConformToSchema},
		{"missing terms contract", func(o *models.DebtOrder) { o.TermsContract = "" }, apperr.CodeDoesNotConformToSchema},
		{"bad unit in parameters", func(o *models.DebtOrder) { o.TermsContractParameters = badUnit.Hex() }, apperr.CodeInvalidAmortizationUnitType},
		{"untracked token", func(o *models.DebtOrder) { o.PrincipalToken = "0x27b1fdb04752bbc536007a920d24acb045561c26" }, apperr.CodeTokenNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)

			_, err := a.FromDebtOrder(ctx, o)
			assert.Equal(t, tt.code, apperr.CodeOf(err))
		})
	}
}

func TestDecodeLoanOrder(t *testing.T) {
	order, err := DecodeLoanOrder([]byte(`{
		"principalAmount": "3000000000000000000",
		"principalTokenSymbol": "REP",
		"interestRate": 0.152,
		"amortizationUnit": "days",
		"termLength": 7
	}`))
	require.NoError(t, err)
	assert.Equal(t, loanOrder().PrincipalTokenSymbol, order.PrincipalTokenSymbol)
	assert.True(t, loanOrder().InterestRate.Equal(order.InterestRate))
	assert.Equal(t, int64(7), order.TermLength)

	_, err = DecodeLoanOrder([]byte(`{"principalAmount": "1", "principalTokenSymbol": "REP", "amortizationUnit": "days", "termLength": 7}`))
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "interestRate", e.Metadata["field"])
}

func TestDecodeDebtOrder(t *testing.T) {
	order, err := DecodeDebtOrder([]byte(`{
		"principalAmount": "1000",
		"principalToken": "` + repAddress + `",
		"termsContract": "` + termsAddress + `",
		"termsContractParameters": "0x0000000000000000002ff62db077c00000010000000000000000000000000007",
		"salt": "42"
	}`))
	require.NoError(t, err)
	assert.Equal(t, repAddress, order.PrincipalToken)
	assert.True(t, decimal.NewFromInt(42).Equal(order.Salt))
	assert.Equal(t, models.NullAddress, order.Debtor)

	_, err = DecodeDebtOrder([]byte(`{"principalAmount": "1000"}`))
	assert.Equal(t, apperr.CodeDoesNotConformToSchema, apperr.CodeOf(err))
}

func TestExpectedRepaymentAndInterestRate(t *testing.T) {
	principal := decimal.NewFromInt(1000)

	repayment := ExpectedRepayment(principal, decimal.RequireFromString("0.125"))
	assert.True(t, decimal.NewFromInt(1125).Equal(repayment))
	assert.True(t, decimal.RequireFromString("0.125").Equal(InterestRate(principal, repayment)))

	assert.True(t, decimal.NewFromInt(1000).Equal(ExpectedRepayment(principal, decimal.Zero)))
	assert.True(t, decimal.NewFromInt(1001).Equal(ExpectedRepayment(principal, decimal.RequireFromString("0.0019"))))
}
