package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/debt-terms/internal/config"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendInstallmentReminder notifies the debtor of an upcoming installment
func (s *Sender) SendInstallmentReminder(to string, entry models.DebtRegistryEntry, inst models.Installment) error {
	e := s.buildReminder(to, entry, inst)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildReminder(to string, entry models.DebtRegistryEntry, inst models.Installment) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Upcoming Installment %d Reminder", inst.Number)

	body := fmt.Sprintf(
		"Installment %d of agreement %s is due on %s.\n"+
			"Amount due: %s (smallest token unit)\n"+
			"Terms contract: %s\n",
		inst.Number, entry.AgreementID, inst.DueTime().Format("2006-01-02 15:04:05 MST"),
		inst.Amount.String(), entry.TermsContract,
	)
	body += "\nBest regards,\nDebt Terms Service"
	e.Text = []byte(body)
	return e
}
