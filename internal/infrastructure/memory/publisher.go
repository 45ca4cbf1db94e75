package memory

import (
	"context"

	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/logger"
)

// NoopPublisher stands in for RabbitMQ when RABBIT_URL is unset.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishAccountRegistered(ctx context.Context, evt domain.AccountRegistered) error {
	logger.WithCtx(ctx).Debug().
		Str("event", "account_registered").
		Str("account_id", evt.AccountID).
		Msg("noop publish")
	return nil
}

func (p *NoopPublisher) PublishProfileUpdated(ctx context.Context, evt domain.ProfileUpdated) error {
	logger.WithCtx(ctx).Debug().
		Str("event", "profile_updated").
		Str("account_id", evt.AccountID).
		Bool("email_changed", evt.EmailChanged).
		Bool("password_changed", evt.PasswordChanged).
		Msg("noop publish")
	return nil
}
