// Package adapter converts between simple interest loan orders and generic
// debt orders.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/schema"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/shopspring/decimal"
)

// rateScale is the number of decimal places kept when recovering a rate.
const rateScale = 18

// Adapter holds the registry lookups needed for conversion. Results are not
// cached; every call resolves again.
type Adapter struct {
	tokens    TokenRegistry
	contracts ContractRegistry
}

// New creates an adapter over the given registries.
func New(tokens TokenRegistry, contracts ContractRegistry) *Adapter {
	return &Adapter{tokens: tokens, contracts: contracts}
}

// ToDebtOrder resolves the order's token and the terms contract, packs the
// terms and returns a debt order built on the protocol defaults.
func (a *Adapter) ToDebtOrder(ctx context.Context, order models.LoanOrder) (models.DebtOrder, error) {
	if err := schema.LoanOrder.Validate(order); err != nil {
		return models.DebtOrder{}, err
	}

	token, err := a.tokens.ResolveBySymbol(ctx, order.PrincipalTokenSymbol)
	if err != nil {
		return models.DebtOrder{}, err
	}
	termsContract, err := a.contracts.SimpleInterestTermsContract(ctx)
	if err != nil {
		return models.DebtOrder{}, err
	}
	kernel, err := a.contracts.DebtKernel(ctx)
	if err != nil {
		return models.DebtOrder{}, err
	}
	router, err := a.contracts.RepaymentRouter(ctx)
	if err != nil {
		return models.DebtOrder{}, err
	}

	word, err := terms.Pack(terms.Params{
		PrincipalTokenIndex:    token.Index,
		TotalExpectedRepayment: ExpectedRepayment(order.PrincipalAmount, order.InterestRate),
		AmortizationUnit:       order.AmortizationUnit,
		TermLength:             decimal.NewFromInt(order.TermLength),
	})
	if err != nil {
		return models.DebtOrder{}, err
	}

	debt := models.DefaultDebtOrder()
	debt.KernelVersion = kernel
	debt.IssuanceVersion = router
	debt.PrincipalAmount = order.PrincipalAmount
	debt.PrincipalToken = token.Address
	debt.TermsContract = termsContract
	debt.TermsContractParameters = word.Hex()
	return debt, nil
}

// FromDebtOrder unpacks the order's terms, checks them against the declared
// principal token and recovers the loan order.
func (a *Adapter) FromDebtOrder(ctx context.Context, order models.DebtOrder) (models.LoanOrder, error) {
	if err := schema.TermsSpecifiedDebtOrder.Validate(order); err != nil {
		return models.LoanOrder{}, err
	}

	params, err := terms.UnpackHex(order.TermsContractParameters)
	if err != nil {
		return models.LoanOrder{}, err
	}

	token, err := a.tokens.ResolveByAddress(ctx, order.PrincipalToken)
	if err != nil {
		return models.LoanOrder{}, err
	}
	if token.Index != params.PrincipalTokenIndex {
		return models.LoanOrder{}, a.mismatch(ctx, order.PrincipalToken, params.PrincipalTokenIndex)
	}

	if params.TermLength.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return models.LoanOrder{}, apperr.WithMetadata(apperr.CodeInvalidTermLength,
			fmt.Sprintf("term length %s does not fit a loan order", params.TermLength),
			map[string]string{"value": params.TermLength.String()})
	}

	return models.LoanOrder{
		PrincipalAmount:      order.PrincipalAmount,
		PrincipalTokenSymbol: token.Symbol,
		InterestRate:         InterestRate(order.PrincipalAmount, params.TotalExpectedRepayment),
		AmortizationUnit:     params.AmortizationUnit,
		TermLength:           params.TermLength.IntPart(),
	}, nil
}

func (a *Adapter) mismatch(ctx context.Context, address string, index int) error {
	implied := "#" + strconv.Itoa(index)
	if r, ok := a.tokens.(IndexResolver); ok {
		if t, err := r.ResolveByIndex(ctx, index); err == nil {
			implied = t.Symbol
		}
	}
	return apperr.WithMetadata(apperr.CodeMismatchedTokenSymbol,
		fmt.Sprintf("principal token %s does not match token %s in the terms contract parameters", address, implied),
		map[string]string{
			"actualTokenAddress": address,
			"impliedSymbol":      implied,
		})
}

// ExpectedRepayment is principal * (1 + rate), rounded down to a whole
// token unit. The rate covers the whole term and is not compounded.
func ExpectedRepayment(principal, rate decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromInt(1).Add(rate)).Floor()
}

// InterestRate inverts ExpectedRepayment. principal must be positive.
func InterestRate(principal, repayment decimal.Decimal) decimal.Decimal {
	return repayment.DivRound(principal, rateScale).Sub(decimal.NewFromInt(1))
}

// DecodeLoanOrder validates raw JSON against the loan order schema, so absent
// fields are reported by name, and decodes it.
func DecodeLoanOrder(data []byte) (models.LoanOrder, error) {
	var order models.LoanOrder
	if err := schema.LoanOrder.ValidateJSON(data); err != nil {
		return order, err
	}
	if err := json.Unmarshal(data, &order); err != nil {
		return order, apperr.Wrap(apperr.CodeDoesNotConformToSchema, "failed to decode loan order", err)
	}
	return order, nil
}

// DecodeDebtOrder validates raw JSON against the terms specified debt order
// schema and decodes it over the protocol defaults.
func DecodeDebtOrder(data []byte) (models.DebtOrder, error) {
	order := models.DefaultDebtOrder()
	if err := schema.TermsSpecifiedDebtOrder.ValidateJSON(data); err != nil {
		return order, err
	}
	if err := json.Unmarshal(data, &order); err != nil {
		return order, apperr.Wrap(apperr.CodeDoesNotConformToSchema, "failed to decode debt order", err)
	}
	return order, nil
}
