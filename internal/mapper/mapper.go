// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/jaykukadiya/Issue-tracker/internal/entities"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/dto"
)

// ToDTOUser maps entities.User to transport model.
func ToDTOUser(u entities.User) dto.User {
	return dto.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToDTOUserList maps a slice of entities.User to a transport listing.
func ToDTOUserList(users []entities.User) dto.UserListResponse {
	res := make([]dto.User, 0, len(users))
	for _, u := range users {
		res = append(res, ToDTOUser(u))
	}
	return dto.UserListResponse{Users: res, Total: len(res)}
}

// ToDTOTeam maps entities.Team to transport model.
func ToDTOTeam(t entities.Team) dto.Team {
	return dto.Team{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		IsActive:    t.IsActive,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToDTOTeamWithRole maps a team plus the caller's role to transport model.
func ToDTOTeamWithRole(t entities.TeamWithRole) dto.Team {
	out := ToDTOTeam(t.Team)
	out.UserRole = t.UserRole
	return out
}

// ToDTOTeamList maps the caller's teams to a transport listing.
func ToDTOTeamList(teams []entities.TeamWithRole) dto.TeamListResponse {
	res := make([]dto.Team, 0, len(teams))
	for _, t := range teams {
		res = append(res, ToDTOTeamWithRole(t))
	}
	return dto.TeamListResponse{Teams: res}
}

// ToDTOTeamMember maps entities.TeamMember to transport model.
func ToDTOTeamMember(m entities.TeamMember) dto.TeamMember {
	return dto.TeamMember{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Username: m.Username,
		Role:     m.Role,
		AddedBy:  m.AddedBy,
		AddedAt:  m.AddedAt,
		IsActive: m.IsActive,
	}
}

// FromDTOCreateIssue builds an entities.Issue from a create request.
func FromDTOCreateIssue(src dto.CreateIssueRequest) entities.Issue {
	return entities.Issue{
		Title:       src.Title,
		Description: src.Description,
		Status:      entities.IssueStatus(src.Status),
		Priority:    entities.IssuePriority(src.Priority),
		Tags:        src.Tags,
		TeamID:      src.TeamID,
		AssignedTo:  src.AssignedTo,
	}
}

// FromDTOUpdateIssue builds an entities.IssueUpdate from an update request.
func FromDTOUpdateIssue(src dto.UpdateIssueRequest) entities.IssueUpdate {
	upd := entities.IssueUpdate{
		Title:       src.Title,
		Description: src.Description,
		AssignedTo:  src.AssignedTo,
		Tags:        src.Tags,
	}
	if src.Status != nil {
		s := entities.IssueStatus(*src.Status)
		upd.Status = &s
	}
	if src.Priority != nil {
		p := entities.IssuePriority(*src.Priority)
		upd.Priority = &p
	}
	return upd
}

// ToDTOIssue maps entities.Issue to transport model.
func ToDTOIssue(i entities.Issue) dto.Issue {
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.Issue{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      string(i.Status),
		Priority:    string(i.Priority),
		Tags:        tags,
		TeamID:      i.TeamID,
		AssignedTo:  i.AssignedTo,
		CreatedBy:   i.CreatedBy,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToDTOIssueList maps a page of issues to transport model.
func ToDTOIssueList(issues []entities.Issue, total int64, page, size int) dto.IssueListResponse {
	res := make([]dto.Issue, 0, len(issues))
	for _, i := range issues {
		res = append(res, ToDTOIssue(i))
	}
	return dto.IssueListResponse{Issues: res, Total: total, Page: page, Size: size}
}

// ToDTONotification maps entities.Notification to transport model.
func ToDTONotification(n entities.Notification) dto.Notification {
	return dto.Notification{
		ID:            n.ID,
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		IssueID:       n.IssueID,
		RelatedUserID: n.RelatedUserID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// ToDTONotificationList maps an inbox page to transport model.
func ToDTONotificationList(page entities.NotificationPage) dto.NotificationListResponse {
	res := make([]dto.Notification, 0, len(page.Items))
	for _, n := range page.Items {
		res = append(res, ToDTONotification(n))
	}
	return dto.NotificationListResponse{
		Notifications: res,
		Total:         page.Total,
		UnreadCount:   page.UnreadCount,
	}
}
