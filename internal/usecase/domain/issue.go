// Package domain contains application usecases orchestrating domain logic by issue.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/identity"
)

// CreateIssue creates an issue inside one of the creator's accessible teams
// and dispatches an assignment notification when created already assigned.
func (u *Usecase) CreateIssue(ctx context.Context, issue entities.Issue, creator entities.User) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issue.Title == "" || issue.Description == "" || issue.TeamID == "" {
		return nil, fmt.Errorf("%w: title, description and team_id are required", entities.ErrInvalidArgument)
	}
	if issue.Status == "" {
		issue.Status = entities.StatusOpen
	}
	if issue.Priority == "" {
		issue.Priority = entities.PriorityMedium
	}

	allowed, err := u.authorizeIssueRead(ctx, creator, issue.TeamID)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: not a member of team %s", entities.ErrForbidden, issue.TeamID)
	}

	issue.CreatedBy = creator.ID
	created, err := u.repo.CreateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	if created.AssignedTo != "" {
		u.dispatcher.IssueAssigned(ctx, *created, creator.Username)
	}

	u.log.Infow("issue created", "issue_id", created.ID, "assigned", created.AssignedTo != "")
	return created, nil
}

// GetIssue returns an issue if the actor's accessible-team set covers it.
func (u *Usecase) GetIssue(ctx context.Context, issueID string, actor entities.User) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issueID == "" {
		return nil, fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}

	issue, err := u.repo.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	allowed, err := u.authorizeIssueRead(ctx, actor, issue.TeamID)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: issue belongs to another team", entities.ErrForbidden)
	}
	return issue, nil
}

// ListIssues returns a page of issues from the actor's accessible teams,
// optionally narrowed to one requested team. A requested team outside the
// accessible set yields zero results, not an error.
func (u *Usecase) ListIssues(ctx context.Context, actor entities.User, filter entities.IssueFilter, teamID string) ([]entities.Issue, int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 || filter.Size > 100 {
		filter.Size = 10
	}

	allowed, err := u.authorizeIssueRead(ctx, actor, teamID)
	if err != nil {
		return nil, 0, err
	}
	filter.TeamIDs = allowed

	return u.repo.ListIssues(ctx, filter)
}

// UpdateIssue applies an issue update for a creator or assignee and dispatches
// the notifications the change warrants. An unresolvable assignee reference is
// dropped from the update rather than failing it.
func (u *Usecase) UpdateIssue(ctx context.Context, issueID string, update entities.IssueUpdate, actor entities.User) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issueID == "" {
		return nil, fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}

	before, err := u.repo.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !authorizeIssueMutation(actor, *before, mutationUpdate) {
		return nil, fmt.Errorf("%w: only the creator or assignee may update an issue", entities.ErrForbidden)
	}

	if update.AssignedTo != nil && *update.AssignedTo != "" {
		resolved, err := u.resolveAssignee(ctx, *update.AssignedTo)
		switch {
		case errors.Is(err, entities.ErrUserNotFound):
			u.log.Warnw("assignee not found, dropping assignment", "issue_id", issueID, "ref", *update.AssignedTo)
			update.AssignedTo = nil
		case err != nil:
			return nil, err
		default:
			update.AssignedTo = &resolved
		}
	}

	updated, err := u.repo.UpdateIssue(ctx, issueID, update)
	if err != nil {
		return nil, err
	}

	u.dispatchIssueUpdate(ctx, *before, *updated, update, actor)
	return updated, nil
}

// dispatchIssueUpdate fans out notifications for one committed update. The
// mutation has already committed; nothing here may fail it.
func (u *Usecase) dispatchIssueUpdate(ctx context.Context, before, after entities.Issue, update entities.IssueUpdate, actor entities.User) {
	assigneeChanged := after.AssignedTo != "" &&
		(before.AssignedTo == "" || !identity.Equal(after.AssignedTo, before.AssignedTo))
	if assigneeChanged {
		u.dispatcher.IssueAssigned(ctx, after, actor.Username)
	}

	switch {
	case after.Status != before.Status && after.AssignedTo != "":
		u.dispatcher.IssueStatusChanged(ctx, after, actor.Username, before.Status, after.Status)
	case !assigneeChanged && after.AssignedTo != "":
		changed := changedFields(update)
		if len(changed) > 0 {
			u.dispatcher.IssueUpdated(ctx, after, actor.Username, changed)
		}
	}
}

func changedFields(update entities.IssueUpdate) []string {
	changed := make([]string, 0, 4)
	if update.Title != nil {
		changed = append(changed, "title")
	}
	if update.Description != nil {
		changed = append(changed, "description")
	}
	if update.Priority != nil {
		changed = append(changed, "priority")
	}
	if update.Tags != nil {
		changed = append(changed, "tags")
	}
	return changed
}

// DeleteIssue removes an issue; only its creator may do so.
func (u *Usecase) DeleteIssue(ctx context.Context, issueID string, actor entities.User) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issueID == "" {
		return fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}

	issue, err := u.repo.GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if !authorizeIssueMutation(actor, *issue, mutationDelete) {
		return fmt.Errorf("%w: only the creator may delete an issue", entities.ErrForbidden)
	}

	return u.repo.DeleteIssue(ctx, issueID)
}

// ListAssignedIssues returns issues assigned to a user.
func (u *Usecase) ListAssignedIssues(ctx context.Context, userID string) ([]entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.ListAssignedIssues(ctx, userID)
}
