// Package domain contains application usecases; this file is the access
// resolver gating team-scoped reads and mutations.
package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/identity"
)

type mutationKind int

const (
	mutationUpdate mutationKind = iota
	mutationDelete
)

// accessibleTeams returns ids of teams the user may act within: active
// memberships unioned with teams the user created. Creators always retain
// access even without an explicit membership row.
func (u *Usecase) accessibleTeams(ctx context.Context, user entities.User) ([]string, error) {
	return u.repo.AccessibleTeamIDs(ctx, user.ID)
}

// authorizeIssueRead resolves the team set an issue listing may draw from.
// A requested team outside the accessible set yields an empty set, not an
// error: listing endpoints fail closed but silent.
func (u *Usecase) authorizeIssueRead(ctx context.Context, user entities.User, teamID string) ([]string, error) {
	accessible, err := u.accessibleTeams(ctx, user)
	if err != nil {
		return nil, err
	}
	if teamID == "" {
		return accessible, nil
	}
	for _, id := range accessible {
		if identity.Equal(id, teamID) {
			return []string{id}, nil
		}
	}
	u.log.Warnw("team access denied for listing", "user_id", user.ID, "team_id", teamID)
	return []string{}, nil
}

// authorizeIssueMutation reports whether the user may mutate the issue.
// Delete requires the creator; update allows creator or assignee. A false
// result is an authorization outcome, not an error.
func authorizeIssueMutation(user entities.User, issue entities.Issue, kind mutationKind) bool {
	isCreator := identity.Equal(issue.CreatedBy, user.ID)
	if kind == mutationDelete {
		return isCreator
	}
	return isCreator || identity.Equal(issue.AssignedTo, user.ID)
}

// resolveAssignee turns a caller-supplied assignee reference into a user
// identity. A valid identity encoding passes through verbatim; otherwise the
// reference is treated as a display form "username (email)" and looked up by
// the leading username token. ErrUserNotFound means the caller should drop the
// assignment field rather than fail the mutation.
func (u *Usecase) resolveAssignee(ctx context.Context, raw string) (string, error) {
	if identity.IsValid(raw) {
		return identity.Normalize(raw).String(), nil
	}

	username := raw
	if i := strings.Index(raw, " ("); i >= 0 {
		username = raw[:i]
	}

	user, err := u.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return "", entities.ErrUserNotFound
		}
		return "", err
	}
	return user.ID, nil
}
