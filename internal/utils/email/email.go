package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/config"
	"github.com/Dan9191/voucher-service/internal/models"
	"github.com/Dan9191/voucher-service/internal/service"
	"github.com/Dan9191/voucher-service/internal/utils"
)

// sendFunc delivers a prepared message; replaced in tests
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
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

// buildIndexUpdatedMessage formats the notification for a new UMA value
func (s *Sender) buildIndexUpdatedMessage(value models.IndexValue) (*email.Email, error) {
	limits, err := service.DeriveLimits(value)
	if err != nil {
		return nil, err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = "UMA Value Updated"

	body := fmt.Sprintf(
		"A new UMA value has been recorded.\n\n"+
			"Daily value: %s MXN\n"+
			"Valid from: %s\n"+
			"Maximum monthly deposit: %s MXN\n"+
			"Maximum annual deposit: %s MXN (%d deposits)\n"+
			"Recorded at: %s\n",
		utils.FormatAmount(limits.DailyValue),
		utils.FormatDate(value.EffectiveDate),
		utils.FormatAmount(limits.PerTransactionCap),
		utils.FormatAmount(limits.AnnualCap),
		limits.DepositsPerYear,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nVoucher Service"
	e.Text = []byte(body)
	return e, nil
}

// NotifyIndexUpdated emails the configured recipient about a new UMA value
func (s *Sender) NotifyIndexUpdated(value models.IndexValue) error {
	e, err := s.buildIndexUpdatedMessage(value)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", s.cfg.NotifyEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.NotifyEmail, e.Subject)
	return nil
}
