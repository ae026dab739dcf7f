package api

import (
	"time"

	"tally/cmd/identity"
	"tally/cmd/internal/commitment"
	"tally/cmd/internal/milestone"
	"tally/cmd/internal/timelog"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type accountDeleteRequest struct {
	Password string `json:"password"`
}

type commitmentCreateRequest struct {
	Title     string  `json:"title"`
	Category  *string `json:"category"`
	GoalHours int     `json:"goal_hours"`
}

type commitmentUpdateRequest struct {
	Title     string  `json:"title"`
	Category  *string `json:"category"`
	GoalHours int     `json:"goal_hours"`
	IsActive  *bool   `json:"is_active"`
}

type logCreateRequest struct {
	CommitmentID string `json:"commitment_id"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Date         string `json:"date"`
	Reflection   string `json:"reflection"`
}

type logUpdateRequest struct {
	Hours      int    `json:"hours"`
	Minutes    int    `json:"minutes"`
	Date       string `json:"date"`
	Reflection string `json:"reflection"`
}

type milestoneCreateRequest struct {
	CommitmentID   string `json:"commitment_id"`
	HoursThreshold int    `json:"hours_threshold"`
	Synthesis      string `json:"synthesis"`
}

type milestoneUpdateRequest struct {
	Synthesis string `json:"synthesis"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

type commitmentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	GoalHours int       `json:"goal_hours"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commitmentProgressResponse struct {
	commitmentResponse
	TotalMinutes int `json:"total_minutes"`
}

type commitmentListResponse struct {
	Commitments []commitmentProgressResponse `json:"commitments"`
}

type pendingMilestoneResponse struct {
	HoursThreshold int `json:"hours_threshold"`
}

type commitmentDetailResponse struct {
	Commitment       commitmentResponse        `json:"commitment"`
	TotalMinutes     int                       `json:"total_minutes"`
	Logs             []logResponse             `json:"logs"`
	Milestones       []milestoneResponse       `json:"milestones"`
	PendingMilestone *pendingMilestoneResponse `json:"pending_milestone"`
}

type logResponse struct {
	ID              string    `json:"id"`
	CommitmentID    string    `json:"commitment_id"`
	DurationMinutes int       `json:"duration_minutes"`
	Date            string    `json:"date"`
	Reflection      string    `json:"reflection"`
	CreatedAt       time.Time `json:"created_at"`
}

type logEntryResponse struct {
	logResponse
	CommitmentTitle    string  `json:"commitment_title"`
	CommitmentCategory *string `json:"commitment_category"`
}

type logListResponse struct {
	Logs []logEntryResponse `json:"logs"`
}

type milestoneResponse struct {
	ID             string    `json:"id"`
	CommitmentID   string    `json:"commitment_id"`
	HoursThreshold int       `json:"hours_threshold"`
	UserSynthesis  string    `json:"user_synthesis"`
	AIFeedback     *string   `json:"ai_feedback"`
	CompletedAt    time.Time `json:"completed_at"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toCommitmentResponse(c commitment.Commitment) commitmentResponse {
	return commitmentResponse{
		ID:        c.ID,
		Title:     c.Title,
		Category:  c.Category,
		GoalHours: c.GoalHours,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toLogResponse(l timelog.TimeLog) logResponse {
	return logResponse{
		ID:              l.ID,
		CommitmentID:    l.CommitmentID,
		DurationMinutes: l.DurationMinutes,
		Date:            l.Date.Format(dateLayout),
		Reflection:      l.Reflection,
		CreatedAt:       l.CreatedAt,
	}
}

func toLogEntryResponse(e timelog.Entry) logEntryResponse {
	return logEntryResponse{
		logResponse:        toLogResponse(e.TimeLog),
		CommitmentTitle:    e.CommitmentTitle,
		CommitmentCategory: e.CommitmentCategory,
	}
}

func toMilestoneResponse(m milestone.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:             m.ID,
		CommitmentID:   m.CommitmentID,
		HoursThreshold: m.HoursThreshold,
		UserSynthesis:  m.UserSynthesis,
		AIFeedback:     m.AIFeedback,
		CompletedAt:    m.CompletedAt,
	}
}
