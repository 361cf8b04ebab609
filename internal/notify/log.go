package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes the reset token to the log. Development only.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) PasswordReset(_ context.Context, notice ResetNotice) error {
	n.logger.Info("password reset token issued",
		zap.String("notice_id", notice.ID),
		zap.String("email", notice.Email),
		zap.String("token", notice.Token),
		zap.Time("expires_at", notice.ExpiresAt),
	)
	return nil
}
