package audit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	reqctx "github.com/baechuer/identity-service/internal/pkg/context"
)

// Logger writes structured audit lines for identity business events.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

func (l *Logger) AccountRegistered(ctx context.Context, accountID, email, ip string) {
	l.log.Info().
		Str("action", "account_registered").
		Str("account_id", accountID).
		Str("email", maskEmail(email)).
		Str("ip", ip).
		Str("request_id", reqctx.GetRequestID(ctx)).
		Msg("Account registered")
}

func (l *Logger) RegistrationRejected(ctx context.Context, email, ip, reason string) {
	l.log.Warn().
		Str("action", "registration_rejected").
		Str("email", maskEmail(email)).
		Str("ip", ip).
		Str("reason", reason).
		Str("request_id", reqctx.GetRequestID(ctx)).
		Msg("Registration rejected")
}

func (l *Logger) AuthenticateSuccess(ctx context.Context, accountID, email, ip string) {
	l.log.Info().
		Str("action", "authenticate_success").
		Str("account_id", accountID).
		Str("email", maskEmail(email)).
		Str("ip", ip).
		Str("request_id", reqctx.GetRequestID(ctx)).
		Msg("Account authenticated")
}

// AuthenticateFailed never records which part of the credentials was wrong.
func (l *Logger) AuthenticateFailed(ctx context.Context, email, ip string) {
	l.log.Warn().
		Str("action", "authenticate_failed").
		Str("email", maskEmail(email)).
		Str("ip", ip).
		Str("request_id", reqctx.GetRequestID(ctx)).
		Msg("Authentication failed")
}

func (l *Logger) ProfileUpdated(ctx context.Context, accountID string, emailChanged, passwordChanged bool) {
	l.log.Info().
		Str("action", "profile_updated").
		Str("account_id", accountID).
		Bool("email_changed", emailChanged).
		Bool("password_changed", passwordChanged).
		Str("request_id", reqctx.GetRequestID(ctx)).
		Msg("Profile updated")
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
