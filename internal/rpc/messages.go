package rpc

import "time"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type Report struct {
	ID            string    `json:"id"`
	ClientRef     string    `json:"client_ref,omitempty"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Priority      string    `json:"priority"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	ImageURL      string    `json:"image_url,omitempty"`
	Status        string    `json:"status"`
	Upvotes       int64     `json:"upvotes"`
	EstimatedCost float64   `json:"estimated_cost"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateReportRequest carries a client-generated ClientRef; the server
// deduplicates creates per (user, ClientRef).
type CreateReportRequest struct {
	ClientRef   string    `json:"client_ref"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	ImageURL    string    `json:"image_url,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}

type CreateReportResponse struct {
	Report *Report `json:"report"`
}

type ListReportsRequest struct {
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Limit    int32  `json:"limit,omitempty"`
}

type ListReportsResponse struct {
	Reports []*Report `json:"reports"`
}

// UpdateReportRequest is a partial update; nil fields are left unchanged.
type UpdateReportRequest struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Priority      *string  `json:"priority,omitempty"`
	Category      *string  `json:"category,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

type UpdateReportResponse struct {
	Report *Report `json:"report"`
}

type DeleteReportRequest struct {
	ID string `json:"id"`
}

type DeleteReportResponse struct{}

type UpvoteReportRequest struct {
	ID string `json:"id"`
}

type UpvoteReportResponse struct {
	Upvotes int64 `json:"upvotes"`
}

type ListUpvotedRequest struct{}

type ListUpvotedResponse struct {
	ReportIDs []string `json:"report_ids"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type SetUserRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SetUserRoleResponse struct{}

type AuditLog struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Action      string    `json:"action"`
	Actor       string    `json:"actor"`
	TargetID    string    `json:"target_id,omitempty"`
	TargetTitle string    `json:"target_title,omitempty"`
	Details     string    `json:"details,omitempty"`
	Category    string    `json:"category"`
}

type ListAuditLogsRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type ListAuditLogsResponse struct {
	Logs []*AuditLog `json:"logs"`
}
