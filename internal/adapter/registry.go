package adapter

import (
	"context"

	"github.com/Dan9191/debt-terms/internal/models"
)

// TokenRegistry resolves tracked ERC20 tokens. Both lookups fail with
// apperr.CodeTokenNotFound for untracked tokens.
type TokenRegistry interface {
	ResolveBySymbol(ctx context.Context, symbol string) (models.Token, error)
	ResolveByAddress(ctx context.Context, address string) (models.Token, error)
}

// IndexResolver is implemented by registries that can look a token up by its
// registry index. It is only used to name the symbol in mismatch errors.
type IndexResolver interface {
	ResolveByIndex(ctx context.Context, index int) (models.Token, error)
}

// ContractRegistry resolves deployed protocol contract addresses.
type ContractRegistry interface {
	SimpleInterestTermsContract(ctx context.Context) (string, error)
	DebtKernel(ctx context.Context) (string, error)
	RepaymentRouter(ctx context.Context) (string, error)
}
