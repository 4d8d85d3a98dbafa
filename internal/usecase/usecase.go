package usecase

import (
	"context"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/auth"
	"github.com/jaykukadiya/Issue-tracker/internal/notify"
	"github.com/jaykukadiya/Issue-tracker/internal/repository"
	"github.com/jaykukadiya/Issue-tracker/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AuthUsecaseInterface
	TeamUsecaseInterface
	IssueUsecaseInterface
	NotificationUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	dispatcher *notify.Dispatcher,
	tokens *auth.TokenManager,
	timeout time.Duration,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, dispatcher, tokens, timeout)
}
