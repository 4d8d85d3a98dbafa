// Package dto defines transport request and response shapes.
package dto

import "time"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the public account shape.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse wraps a user listing.
type UserListResponse struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}

// CreateTeamRequest creates a team.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Team is the public team shape.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	IsActive    bool      `json:"is_active"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserRole    string    `json:"user_role,omitempty"`
}

// TeamListResponse wraps the caller's teams.
type TeamListResponse struct {
	Teams []Team `json:"teams"`
}

// AddTeamMemberRequest adds a user to a team by username.
type AddTeamMemberRequest struct {
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// TeamMember is the public membership shape.
type TeamMember struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	AddedBy  string    `json:"added_by"`
	AddedAt  time.Time `json:"added_at"`
	IsActive bool      `json:"is_active"`
}

// CreateIssueRequest creates an issue.
type CreateIssueRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TeamID      string   `json:"team_id"`
	AssignedTo  string   `json:"assigned_to,omitempty"`
}

// UpdateIssueRequest updates an issue; nil fields are left unchanged.
type UpdateIssueRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
}

// Issue is the public issue shape.
type Issue struct {
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

// IssueListResponse wraps a paginated issue listing.
type IssueListResponse struct {
	Issues []Issue `json:"issues"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}

// Notification is the public inbox record shape.
type Notification struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	IssueID       string    `json:"issue_id,omitempty"`
	RelatedUserID string    `json:"related_user_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NotificationListResponse wraps a paginated inbox view.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
}

// UnreadCountResponse carries the unread counter alone.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// EnhanceDescriptionRequest asks for an improved issue description.
type EnhanceDescriptionRequest struct {
	RawDescription string `json:"raw_description"`
}

// EnhanceDescriptionResponse returns the improved description.
type EnhanceDescriptionResponse struct {
	EnhancedDescription string `json:"enhanced_description"`
}
