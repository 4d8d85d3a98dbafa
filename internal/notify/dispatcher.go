package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/repository"

	"go.uber.org/zap"
)

// Live push event types and kanban actions.
const (
	eventIssueAssigned = "issue_assigned"
	eventKanbanUpdate  = "kanban_update"

	ActionAssigned      = "assigned"
	ActionStatusChanged = "status_changed"
	ActionUpdated       = "updated"
)

type pushMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type assignmentData struct {
	EventType string       `json:"event_type"`
	Issue     issuePayload `json:"issue"`
	Assigner  string       `json:"assigner"`
	Timestamp time.Time    `json:"timestamp"`
	Message   string       `json:"message"`
}

type kanbanData struct {
	EventType string       `json:"event_type"`
	Action    string       `json:"action"`
	Issue     issuePayload `json:"issue"`
	Timestamp time.Time    `json:"timestamp"`
}

type issuePayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Tags        []string  `json:"tags"`
	TeamID      string    `json:"team_id"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPayload(issue entities.Issue) issuePayload {
	return issuePayload{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Tags:        issue.Tags,
		TeamID:      issue.TeamID,
		AssignedTo:  issue.AssignedTo,
		CreatedBy:   issue.CreatedBy,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// Dispatcher fans one issue lifecycle event out to the durable inbox and the
// live channels. The two deliveries are independent: a failed inbox write never
// suppresses the push, a failed push never touches the inbox, and neither ever
// propagates to the mutation that triggered the event.
type Dispatcher struct {
	log      *zap.SugaredLogger
	store    repository.NotificationInterface
	registry *Registry
}

// NewDispatcher constructs a dispatcher over the durable store and the registry.
func NewDispatcher(log *zap.SugaredLogger, store repository.NotificationInterface, registry *Registry) *Dispatcher {
	return &Dispatcher{
		log:      log.Named("notify.dispatch"),
		store:    store,
		registry: registry,
	}
}

// IssueAssigned notifies the issue's assignee of a new assignment.
func (d *Dispatcher) IssueAssigned(ctx context.Context, issue entities.Issue, assigner string) {
	d.persist(ctx, entities.Notification{
		Type:    entities.NotificationIssueAssigned,
		Title:   "New Issue Assigned",
		Message: fmt.Sprintf("You have been assigned to issue: %s by %s", issue.Title, assigner),
		IssueID: issue.ID,
		UserID:  issue.AssignedTo,
	})

	d.registry.SendToUser(issue.AssignedTo, pushMessage{
		Type: "notification",
		Data: assignmentData{
			EventType: eventIssueAssigned,
			Issue:     toPayload(issue),
			Assigner:  assigner,
			Timestamp: issue.UpdatedAt,
			Message:   fmt.Sprintf("You have been assigned to issue: %s", issue.Title),
		},
	})
	d.sendKanban(issue.AssignedTo, issue, ActionAssigned)
}

// IssueStatusChanged notifies the assignee of a status transition. It takes
// precedence over a generic update notification for the same mutation.
func (d *Dispatcher) IssueStatusChanged(ctx context.Context, issue entities.Issue, updater string, oldStatus, newStatus entities.IssueStatus) {
	d.persist(ctx, entities.Notification{
		Type:    entities.NotificationIssueStatusChanged,
		Title:   "Issue Status Changed",
		Message: fmt.Sprintf("Issue '%s' status changed from %s to %s by %s", issue.Title, oldStatus, newStatus, updater),
		IssueID: issue.ID,
		UserID:  issue.AssignedTo,
	})

	d.sendKanban(issue.AssignedTo, issue, ActionStatusChanged)
}

// IssueUpdated notifies the assignee that other fields of the issue changed.
func (d *Dispatcher) IssueUpdated(ctx context.Context, issue entities.Issue, updater string, changed []string) {
	d.persist(ctx, entities.Notification{
		Type:    entities.NotificationIssueUpdated,
		Title:   "Issue Updated",
		Message: fmt.Sprintf("Issue '%s' has been updated by %s. Changes: %s", issue.Title, updater, strings.Join(changed, ", ")),
		IssueID: issue.ID,
		UserID:  issue.AssignedTo,
	})

	d.sendKanban(issue.AssignedTo, issue, ActionUpdated)
}

// TeamMemberAdded notifies a user of being added to a team. Durable only; the
// team surface has no live board to refresh.
func (d *Dispatcher) TeamMemberAdded(ctx context.Context, teamName, userID, addedBy string) {
	d.persist(ctx, entities.Notification{
		Type:    entities.NotificationTeamInvite,
		Title:   "Added to Team",
		Message: fmt.Sprintf("You have been added to team '%s' by %s", teamName, addedBy),
		UserID:  userID,
	})
}

func (d *Dispatcher) persist(ctx context.Context, n entities.Notification) {
	if _, err := d.store.CreateNotification(ctx, n); err != nil {
		d.log.Errorw("durable notification write failed",
			"user_id", n.UserID, "type", n.Type, "error", err)
	}
}

func (d *Dispatcher) sendKanban(userID string, issue entities.Issue, action string) {
	d.registry.SendToUser(userID, pushMessage{
		Type: "notification",
		Data: kanbanData{
			EventType: eventKanbanUpdate,
			Action:    action,
			Issue:     toPayload(issue),
			Timestamp: issue.UpdatedAt,
		},
	})
}
