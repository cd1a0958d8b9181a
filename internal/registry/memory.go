// Package registry provides token and contract registries backed by memory
// or by a deployment manifest.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/ethaddr"
	"github.com/Dan9191/debt-terms/internal/models"
)

// Contract names as they appear in deployment manifests.
const (
	SimpleInterestTermsContract = "SimpleInterestTermsContract"
	DebtKernel                  = "DebtKernel"
	RepaymentRouter             = "RepaymentRouter"
)

// Memory is an in-memory token and contract registry. It is safe for
// concurrent use.
type Memory struct {
	mu        sync.RWMutex
	tokens    map[int]models.Token
	contracts map[string]string
}

// NewMemory creates an empty registry.
func NewMemory() *Memory {
	return &Memory{
		tokens:    make(map[int]models.Token),
		contracts: make(map[string]string),
	}
}

// AddToken tracks t. Index and symbol must be unused and the address valid.
func (m *Memory) AddToken(t models.Token) error {
	if t.Index < 0 || t.Index > 255 {
		return fmt.Errorf("token %s: index %d out of range", t.Symbol, t.Index)
	}
	if t.Symbol == "" {
		return fmt.Errorf("token #%d: symbol is required", t.Index)
	}
	address, err := ethaddr.Checksum(t.Address)
	if err != nil {
		return fmt.Errorf("token %s: %w", t.Symbol, err)
	}
	t.Address = address

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[t.Index]; ok {
		return fmt.Errorf("token index %d already registered", t.Index)
	}
	for _, existing := range m.tokens {
		if existing.Symbol == t.Symbol {
			return fmt.Errorf("token symbol %s already registered", t.Symbol)
		}
	}
	m.tokens[t.Index] = t
	return nil
}

// SetContract records the deployed address of the named contract.
func (m *Memory) SetContract(name, address string) error {
	checksummed, err := ethaddr.Checksum(address)
	if err != nil {
		return fmt.Errorf("contract %s: %w", name, err)
	}
	m.mu.Lock()
	m.contracts[name] = checksummed
	m.mu.Unlock()
	return nil
}

// Tokens returns every tracked token ordered by index.
func (m *Memory) Tokens() []models.Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Token, 0, len(m.tokens))
	for _, t := range m.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (m *Memory) ResolveBySymbol(_ context.Context, symbol string) (models.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tokens {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return models.Token{}, TokenNotFound("symbol", symbol)
}

func (m *Memory) ResolveByAddress(_ context.Context, address string) (models.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tokens {
		if ethaddr.Equal(t.Address, address) {
			return t, nil
		}
	}
	return models.Token{}, TokenNotFound("address", address)
}

func (m *Memory) ResolveByIndex(_ context.Context, index int) (models.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tokens[index]; ok {
		return t, nil
	}
	return models.Token{}, TokenNotFound("index", strconv.Itoa(index))
}

func (m *Memory) SimpleInterestTermsContract(_ context.Context) (string, error) {
	return m.contract(SimpleInterestTermsContract)
}

func (m *Memory) DebtKernel(_ context.Context) (string, error) {
	return m.contract(DebtKernel)
}

func (m *Memory) RepaymentRouter(_ context.Context) (string, error) {
	return m.contract(RepaymentRouter)
}

func (m *Memory) contract(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if address, ok := m.contracts[name]; ok {
		return address, nil
	}
	return "", apperr.WithMetadata(apperr.CodeContractNotFound,
		fmt.Sprintf("contract %s is not deployed", name),
		map[string]string{"contract": name})
}

// TokenNotFound builds the lookup error for an untracked token.
func TokenNotFound(by, value string) error {
	return apperr.WithMetadata(apperr.CodeTokenNotFound,
		fmt.Sprintf("token with %s %s is not tracked by the token registry", by, value),
		map[string]string{by: value})
}
