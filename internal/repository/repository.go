// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/config"
	"github.com/jaykukadiya/Issue-tracker/internal/repository/mongo"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	UserInterface
	TeamInterface
	IssueInterface
	NotificationInterface
}

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case "mongo":
		return mongo.New(ctx, log, cfg), nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}
