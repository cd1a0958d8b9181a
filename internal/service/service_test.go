package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dan9191/debt-terms/internal/adapter"
	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/registry"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceWord = "0x0000000000000000002ff62db077c00000010000000000000000000000000007"

type memoryEntries struct {
	mu      sync.Mutex
	entries map[string]models.DebtRegistryEntry
	err     error
}

func (m *memoryEntries) CreateEntry(_ context.Context, e *models.DebtRegistryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.AgreementID] = *e
	return nil
}

func (m *memoryEntries) FindEntry(_ context.Context, id string) (*models.DebtRegistryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, apperr.New(apperr.CodeEntryNotFound, "not found")
	}
	return &e, nil
}

func newTestService(t *testing.T) (*Service, *memoryEntries, *test.Hook) {
	t.Helper()
	reg, err := registry.LoadManifest("../registry/testdata/manifest.xml")
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	entries := &memoryEntries{entries: map[string]models.DebtRegistryEntry{}}
	return NewService(adapter.New(reg, reg), entries, logger), entries, hook
}

func TestPackAndUnpackTerms(t *testing.T) {
	svc, _, _ := newTestService(t)

	w, err := svc.PackTerms(terms.Params{
		TotalExpectedRepayment: decimal.RequireFromString("3456000000000000000"),
		AmortizationUnit:       models.Days,
		TermLength:             decimal.NewFromInt(7),
	})
	require.NoError(t, err)
	assert.Equal(t, referenceWord, w.Hex())

	p, err := svc.UnpackTerms(referenceWord)
	require.NoError(t, err)
	assert.Equal(t, models.Days, p.AmortizationUnit)
}

func TestRejectedInputLogsWarning(t *testing.T) {
	svc, _, hook := newTestService(t)

	_, err := svc.UnpackTerms("0x12")
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, apperr.CodeInvalidPackedParameters, entry.Data["code"])
}

func TestSchedule(t *testing.T) {
	svc, _, _ := newTestService(t)

	dates, err := svc.Schedule(1520000000, referenceWord)
	require.NoError(t, err)
	require.Len(t, dates, 7)
	assert.Equal(t, int64(1520000000+86400), dates[0])
}

func TestDebtOrderConversions(t *testing.T) {
	svc, _, hook := newTestService(t)
	ctx := context.Background()

	debt, err := svc.ToDebtOrder(ctx, models.LoanOrder{
		PrincipalAmount:      decimal.RequireFromString("3000000000000000000"),
		PrincipalTokenSymbol: "REP",
		InterestRate:         decimal.RequireFromString("0.152"),
		AmortizationUnit:     models.Days,
		TermLength:           7,
	})
	require.NoError(t, err)
	assert.Equal(t, referenceWord, debt.TermsContractParameters)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	loan, err := svc.FromDebtOrder(ctx, debt)
	require.NoError(t, err)
	assert.Equal(t, "REP", loan.PrincipalTokenSymbol)
	assert.True(t, decimal.RequireFromString("0.152").Equal(loan.InterestRate))
}

func validEntry() *models.DebtRegistryEntry {
	return &models.DebtRegistryEntry{
		AgreementID:             "0x0000000000000000000000000000000000000000000000000000000000000001",
		Beneficiary:             "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Debtor:                  "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		Underwriter:             models.NullAddress,
		TermsContract:           "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		TermsContractParameters: referenceWord,
		IssuanceBlockTimestamp:  1520000000,
		ContactEmail:            "debtor@example.com",
	}
}

func TestRegisterEntryAndInstallments(t *testing.T) {
	svc, entries, hook := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RegisterEntry(ctx, validEntry(), "issuer"))
	assert.Len(t, entries.entries, 1)
	assert.Equal(t, "issuer", hook.LastEntry().Data["caller"])

	installments, err := svc.EntryInstallments(ctx, validEntry().AgreementID)
	require.NoError(t, err)
	require.Len(t, installments, 7)
	assert.True(t, decimal.RequireFromString("493714285714285714").Equal(installments[0].Amount))

	_, err = svc.EntryInstallments(ctx, "0x02")
	assert.True(t, apperr.HasCode(err, apperr.CodeEntryNotFound))
}

func TestRegisterEntryRejectsBadInput(t *testing.T) {
	svc, entries, _ := newTestService(t)
	ctx := context.Background()

	e := validEntry()
	e.TermsContract = "0x12"
	assert.True(t, apperr.HasCode(svc.RegisterEntry(ctx, e, "issuer"), apperr.CodeDoesNotConformToSchema))

	e = validEntry()
	e.TermsContractParameters = "0x0000000000000000002ff62db077c00000080000000000000000000000000007"
	assert.True(t, apperr.HasCode(svc.RegisterEntry(ctx, e, "issuer"), apperr.CodeInvalidAmortizationUnitType))

	assert.Empty(t, entries.entries)
}

func TestRegisterEntryStoreFailureLogsError(t *testing.T) {
	svc, entries, hook := newTestService(t)
	entries.err = errors.New("connection refused")

	err := svc.RegisterEntry(context.Background(), validEntry(), "issuer")
	require.Error(t, err)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
