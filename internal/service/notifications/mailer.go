package notifications

import (
	"context"
	"strings"

	"poslito/internal/logx"
)

// LogMailer writes outbound mail to the log instead of an SMTP relay. Used
// until a real mail provider is wired into the worker deployment.
type LogMailer struct {
	logger logx.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger logx.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the mail and reports success.
func (m *LogMailer) Send(_ context.Context, mail Mail) error {
	m.logger.Info("outbound mail",
		logx.String("to", strings.Join(mail.To, ",")),
		logx.String("subject", mail.Subject),
		logx.String("body", mail.Body),
	)
	return nil
}
