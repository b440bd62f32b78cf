package model

import (
	"strings"
	"time"

	"ai-mentor-platform/internal/domain"

	"github.com/oklog/ulid/v2"
)

// GoalEntry is one goal's outcome inside a check-in. The slice order is the
// order the user listed the goals in; it is preserved end to end.
type GoalEntry struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// CheckinRecord is a user's daily record of mood, goal progress and optional
// reflection. Records are immutable once created; the analytics layer only
// ever reads them.
//
// IDs are ULIDs so lexicographic order matches creation order, which the
// streak and trend queries rely on.
type CheckinRecord struct {
	ID          string
	UserID      string
	MentorID    string
	MoodScore   int // always within [1,10]
	Goals       []GoalEntry
	Reflection  string // optional free text; encrypted at rest
	MentorReply string // AI-generated mentor response
	CreatedAt   time.Time
}

func NewCheckin(userID, mentorID string, moodScore int, goals []GoalEntry, reflection string, now time.Time) (*CheckinRecord, error) {
	if userID == "" || mentorID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if moodScore < 1 || moodScore > 10 {
		return nil, domain.ErrInvalidArgument
	}
	seen := make(map[string]struct{}, len(goals))
	for _, g := range goals {
		text := strings.TrimSpace(g.Text)
		if text == "" {
			return nil, domain.ErrInvalidArgument
		}
		if _, dup := seen[text]; dup {
			return nil, domain.ErrInvalidArgument
		}
		seen[text] = struct{}{}
	}
	return &CheckinRecord{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:     userID,
		MentorID:   mentorID,
		MoodScore:  moodScore,
		Goals:      goals,
		Reflection: reflection,
		CreatedAt:  now,
	}, nil
}

// CompletedGoals counts goals marked done in this check-in.
func (c *CheckinRecord) CompletedGoals() int {
	n := 0
	for _, g := range c.Goals {
		if g.Completed {
			n++
		}
	}
	return n
}
