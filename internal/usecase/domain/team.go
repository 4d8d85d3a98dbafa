// Package domain contains application usecases orchestrating domain logic by team.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/identity"
)

// CreateTeam creates a team; the creator becomes its admin member.
func (u *Usecase) CreateTeam(ctx context.Context, name, description string, creator entities.User) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}

	team := entities.Team{Name: name, Description: description}
	return u.repo.CreateTeam(ctx, team, creator)
}

// ListUserTeams returns the user's active teams with their role in each.
func (u *Usecase) ListUserTeams(ctx context.Context, user entities.User) ([]entities.TeamWithRole, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListUserTeams(ctx, user.ID)
}

// AddTeamMember adds a user to a team by username. Only team admins may add
// members; the added user gets a durable team-invite notification.
func (u *Usecase) AddTeamMember(ctx context.Context, teamID, username, role string, actor entities.User) (*entities.TeamMember, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if teamID == "" || username == "" {
		return nil, fmt.Errorf("%w: team_id and username are required", entities.ErrInvalidArgument)
	}
	if role == "" {
		role = entities.RoleMember
	}
	if role != entities.RoleMember && role != entities.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, role)
	}

	membership, err := u.repo.GetMembership(ctx, teamID, actor.ID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}
	if membership == nil || membership.Role != entities.RoleAdmin {
		return nil, fmt.Errorf("%w: only team admins can add members", entities.ErrForbidden)
	}

	userToAdd, err := u.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	member, err := u.repo.AddTeamMember(ctx, entities.TeamMember{
		TeamID:   teamID,
		UserID:   userToAdd.ID,
		Username: userToAdd.Username,
		Role:     role,
		AddedBy:  actor.ID,
	})
	if err != nil {
		return nil, err
	}

	teamName := teamID
	if team, err := u.repo.GetTeam(ctx, teamID); err == nil {
		teamName = team.Name
	}
	u.dispatcher.TeamMemberAdded(ctx, teamName, userToAdd.ID, actor.Username)

	return member, nil
}

// ListTeamMembers returns the user details of a team's active members; the
// actor must be a member of the team or its creator.
func (u *Usecase) ListTeamMembers(ctx context.Context, teamID string, actor entities.User) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", entities.ErrInvalidArgument)
	}

	membership, err := u.repo.GetMembership(ctx, teamID, actor.ID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}
	if membership == nil {
		team, err := u.repo.GetTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if !identity.Equal(team.CreatedBy, actor.ID) {
			return nil, fmt.Errorf("%w: not a member of this team", entities.ErrForbidden)
		}
	}

	members, err := u.repo.ListTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return u.repo.GetUsersByIDs(ctx, ids)
}

// ListTeammates returns the distinct users across every team the actor
// belongs to.
func (u *Usecase) ListTeammates(ctx context.Context, actor entities.User) ([]entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	teams, err := u.repo.ListUserTeams(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, t := range teams {
		members, err := u.repo.ListTeamMembers(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			key := identity.Normalize(m.UserID).String()
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				ids = append(ids, m.UserID)
			}
		}
	}

	return u.repo.GetUsersByIDs(ctx, ids)
}
