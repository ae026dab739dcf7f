// Package commitment implements tally's learning commitments: a titled,
// optionally categorized goal with a target number of hours, owned by a user.
package commitment

import (
	"strings"
	"time"
	"unicode/utf8"

	"tally/cmd/identity/ids"
)

const (
	// DefaultGoalHours is applied when a commitment is created without an
	// explicit goal.
	DefaultGoalHours = 100

	MaxTitleLen    = 100
	MaxCategoryLen = 50
)

// Commitment is one learning goal.
type Commitment struct {
	ID        string
	UserID    string
	Title     string
	Category  *string
	GoalHours int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Progress pairs a commitment with the minutes logged against it.
type Progress struct {
	Commitment
	TotalMinutes int
}

// New validates input and builds a commitment ready for Store.Create.
// A zero goalHours selects DefaultGoalHours.
func New(userID, title string, category *string, goalHours int, now time.Time) (Commitment, error) {
	if goalHours == 0 {
		goalHours = DefaultGoalHours
	}

	title = strings.TrimSpace(title)
	category = trimCategory(category)
	if err := Validate(title, category, goalHours); err != nil {
		return Commitment{}, err
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return Commitment{}, err
	}

	return Commitment{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Category:  category,
		GoalHours: goalHours,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the user-editable fields. It is shared by create and update.
func Validate(title string, category *string, goalHours int) error {
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrInvalidInput
	}
	if category != nil && utf8.RuneCountInString(*category) > MaxCategoryLen {
		return ErrInvalidInput
	}
	if goalHours < 1 {
		return ErrInvalidInput
	}
	return nil
}

func trimCategory(category *string) *string {
	if category == nil {
		return nil
	}
	c := strings.TrimSpace(*category)
	if c == "" {
		return nil
	}
	return &c
}
