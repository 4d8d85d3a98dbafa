// Package domain contains application usecases orchestrating domain logic.
package domain

import (
	"context"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/auth"
	"github.com/jaykukadiya/Issue-tracker/internal/notify"
	"github.com/jaykukadiya/Issue-tracker/internal/repository"

	"go.uber.org/zap"
)

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx        context.Context
	log        *zap.SugaredLogger
	repo       repository.Repository
	dispatcher *notify.Dispatcher
	tokens     *auth.TokenManager
	timeout    time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	dispatcher *notify.Dispatcher,
	tokens *auth.TokenManager,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:        ctx,
		log:        log,
		repo:       repo,
		dispatcher: dispatcher,
		tokens:     tokens,
		timeout:    timeout,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
