package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/registry"
	"github.com/shopspring/decimal"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const tokenColumns = `token_index, symbol, address, name`

// ResolveBySymbol finds a tracked token by symbol
func (r *Repository) ResolveBySymbol(ctx context.Context, symbol string) (models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM debt.tokens WHERE symbol = $1`
	return r.findToken(ctx, query, symbol, "symbol", symbol)
}

// ResolveByAddress finds a tracked token by address, ignoring case
func (r *Repository) ResolveByAddress(ctx context.Context, address string) (models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM debt.tokens WHERE lower(address) = $1`
	return r.findToken(ctx, query, strings.ToLower(address), "address", address)
}

// ResolveByIndex finds a tracked token by registry index
func (r *Repository) ResolveByIndex(ctx context.Context, index int) (models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM debt.tokens WHERE token_index = $1`
	return r.findToken(ctx, query, index, "index", strconv.Itoa(index))
}

func (r *Repository) findToken(ctx context.Context, query string, arg any, by, value string) (models.Token, error) {
	var t models.Token
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.Index, &t.Symbol, &t.Address, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Token{}, registry.TokenNotFound(by, value)
	}
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to find token: %w", err)
	}
	return t, nil
}

// UpsertToken inserts or replaces a tracked token
func (r *Repository) UpsertToken(ctx context.Context, t models.Token) error {
	query := `
		INSERT INTO debt.tokens (token_index, symbol, address, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_index) DO UPDATE
		SET symbol = EXCLUDED.symbol, address = EXCLUDED.address, name = EXCLUDED.name`
	if _, err := r.db.ExecContext(ctx, query, t.Index, t.Symbol, t.Address, t.Name); err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

// CreateEntry stores an issued debt agreement
func (r *Repository) CreateEntry(ctx context.Context, e *models.DebtRegistryEntry) error {
	query := `
		INSERT INTO debt.entries (agreement_id, beneficiary, debtor, underwriter, underwriter_risk_rating,
			terms_contract, terms_contract_parameters, issuance_block_timestamp, contact_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		e.AgreementID, e.Beneficiary, e.Debtor, e.Underwriter, e.UnderwriterRiskRating.String(),
		e.TermsContract, e.TermsContractParameters, e.IssuanceBlockTimestamp, e.ContactEmail).
		Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

const entryColumns = `agreement_id, beneficiary, debtor, underwriter, underwriter_risk_rating,
	terms_contract, terms_contract_parameters, issuance_block_timestamp, contact_email, created_at`

// FindEntry retrieves a debt agreement by id
func (r *Repository) FindEntry(ctx context.Context, agreementID string) (*models.DebtRegistryEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM debt.entries WHERE agreement_id = $1`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, agreementID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.WithMetadata(apperr.CodeEntryNotFound,
			fmt.Sprintf("debt agreement %s not found", agreementID),
			map[string]string{"agreementId": agreementID})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	return e, nil
}

// ListEntriesWithContact returns every agreement that has a contact email
func (r *Repository) ListEntriesWithContact(ctx context.Context) ([]models.DebtRegistryEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM debt.entries WHERE contact_email <> '' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.DebtRegistryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.DebtRegistryEntry, error) {
	e := &models.DebtRegistryEntry{}
	var rating string
	err := s.Scan(&e.AgreementID, &e.Beneficiary, &e.Debtor, &e.Underwriter, &rating,
		&e.TermsContract, &e.TermsContractParameters, &e.IssuanceBlockTimestamp, &e.ContactEmail, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if e.UnderwriterRiskRating, err = decimal.NewFromString(rating); err != nil {
		return nil, fmt.Errorf("invalid risk rating %q: %w", rating, err)
	}
	return e, nil
}
