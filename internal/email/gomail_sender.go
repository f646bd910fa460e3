package email

import (
	"fmt"

	"aic_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// GomailSender implements Provider over SMTP via gomail.
type GomailSender struct {
	cfg *config.Config
}

func NewGomailSender(cfg *config.Config) (*GomailSender, error) {
	if cfg.Email.SMTPHost == "" || cfg.Email.FromEmail == "" {
		return nil, fmt.Errorf("email is not configured (smtp_host, from_email)")
	}
	return &GomailSender{cfg: cfg}, nil
}

func (s *GomailSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	from := s.cfg.Email.FromEmail
	if s.cfg.Email.FromName != "" {
		from = m.FormatAddress(s.cfg.Email.FromEmail, s.cfg.Email.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (s *GomailSender) SendWelcome(to, firstName string) error {
	html, err := renderWelcome(firstName)
	if err != nil {
		return err
	}
	return s.Send(&Email{
		To:      []string{to},
		Subject: "Bienvenue chez Africa Invest Capital",
		HTML:    html,
	})
}

func (s *GomailSender) SendLoanStatusChanged(to, firstName, loanID, oldStatus, newStatus string) error {
	html, err := renderStatusChanged(firstName, loanID, oldStatus, newStatus)
	if err != nil {
		return err
	}
	return s.Send(&Email{
		To:      []string{to},
		Subject: "Mise à jour de votre demande de prêt",
		HTML:    html,
	})
}

func (s *GomailSender) SendPasswordReset(to, firstName, token string) error {
	html, err := renderPasswordReset(firstName, token)
	if err != nil {
		return err
	}
	return s.Send(&Email{
		To:      []string{to},
		Subject: "Réinitialisation de votre mot de passe",
		HTML:    html,
	})
}

// NoopSender is used when SMTP is not configured; sends are dropped.
type NoopSender struct{}

func (NoopSender) Send(*Email) error                                                  { return nil }
func (NoopSender) SendWelcome(string, string) error                                   { return nil }
func (NoopSender) SendLoanStatusChanged(string, string, string, string, string) error { return nil }
func (NoopSender) SendPasswordReset(string, string, string) error                     { return nil }
