package service

import (
	"context"
	"errors"

	"github.com/Dan9191/debt-terms/internal/adapter"
	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/schedule"
	"github.com/Dan9191/debt-terms/internal/schema"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/sirupsen/logrus"
)

// EntryStore persists issued debt agreements
type EntryStore interface {
	CreateEntry(ctx context.Context, e *models.DebtRegistryEntry) error
	FindEntry(ctx context.Context, agreementID string) (*models.DebtRegistryEntry, error)
}

// Service handles business logic
type Service struct {
	adapter *adapter.Adapter
	entries EntryStore
	log     *logrus.Logger
}

// NewService initializes a new service
func NewService(a *adapter.Adapter, entries EntryStore, log *logrus.Logger) *Service {
	return &Service{adapter: a, entries: entries, log: log}
}

// PackTerms encodes simple interest terms into a parameter word
func (s *Service) PackTerms(p terms.Params) (terms.Word, error) {
	w, err := terms.Pack(p)
	if err != nil {
		s.logFailure("pack terms", err)
		return w, err
	}
	s.log.Debugf("Packed terms for token #%d: %s", p.PrincipalTokenIndex, w)
	return w, nil
}

// UnpackTerms decodes a hex parameter word
func (s *Service) UnpackTerms(parameters string) (terms.Params, error) {
	p, err := terms.UnpackHex(parameters)
	if err != nil {
		s.logFailure("unpack terms", err)
		return p, err
	}
	return p, nil
}

// Schedule computes the due dates of terms issued at the given time
func (s *Service) Schedule(issuance int64, parameters string) ([]int64, error) {
	dates, err := schedule.ForEntry(models.DebtRegistryEntry{
		TermsContractParameters: parameters,
		IssuanceBlockTimestamp:  issuance,
	})
	if err != nil {
		s.logFailure("compute schedule", err)
		return nil, err
	}
	return dates, nil
}

// ToDebtOrder converts a loan order into a debt order ready for submission
func (s *Service) ToDebtOrder(ctx context.Context, order models.LoanOrder) (models.DebtOrder, error) {
	debt, err := s.adapter.ToDebtOrder(ctx, order)
	if err != nil {
		s.logFailure("build debt order", err)
		return debt, err
	}
	s.log.WithFields(logrus.Fields{
		"symbol":     order.PrincipalTokenSymbol,
		"parameters": debt.TermsContractParameters,
	}).Info("Debt order built")
	return debt, nil
}

// FromDebtOrder recovers the loan order behind a debt order
func (s *Service) FromDebtOrder(ctx context.Context, order models.DebtOrder) (models.LoanOrder, error) {
	loan, err := s.adapter.FromDebtOrder(ctx, order)
	if err != nil {
		s.logFailure("decode debt order", err)
		return loan, err
	}
	s.log.WithFields(logrus.Fields{
		"symbol":     loan.PrincipalTokenSymbol,
		"parameters": order.TermsContractParameters,
	}).Info("Debt order decoded")
	return loan, nil
}

// RegisterEntry validates and stores an issued debt agreement on behalf of
// caller, the authenticated subject.
func (s *Service) RegisterEntry(ctx context.Context, e *models.DebtRegistryEntry, caller string) error {
	if err := schema.DebtRegistryEntry.Validate(e); err != nil {
		s.logFailure("register entry", err)
		return err
	}
	if _, err := terms.UnpackHex(e.TermsContractParameters); err != nil {
		s.logFailure("register entry", err)
		return err
	}
	if err := s.entries.CreateEntry(ctx, e); err != nil {
		s.logFailure("register entry", err)
		return err
	}
	s.log.WithField("caller", caller).Infof("Debt agreement registered: %s", e.AgreementID)
	return nil
}

// EntryInstallments returns the repayment schedule of a stored agreement
func (s *Service) EntryInstallments(ctx context.Context, agreementID string) ([]models.Installment, error) {
	e, err := s.entries.FindEntry(ctx, agreementID)
	if err != nil {
		s.logFailure("load entry", err)
		return nil, err
	}
	installments, err := schedule.Installments(*e)
	if err != nil {
		s.logFailure("compute installments", err)
		return nil, err
	}
	return installments, nil
}

// logFailure logs rejected input at warn and everything else at error.
func (s *Service) logFailure(op string, err error) {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		s.log.WithFields(logrus.Fields{
			"code":     domainErr.Code,
			"metadata": domainErr.Metadata,
		}).Warnf("Failed to %s: %v", op, err)
		return
	}
	s.log.Errorf("Failed to %s: %v", op, err)
}
