package model

import (
	"time"

	"ai-mentor-platform/internal/domain"

	"github.com/google/uuid"
)

type GenerationKind string

const (
	GenerationKindVideo  GenerationKind = "video"
	GenerationKindAvatar GenerationKind = "avatar"
	GenerationKindVoice  GenerationKind = "voice"
)

func (k GenerationKind) Valid() bool {
	switch k {
	case GenerationKindVideo, GenerationKindAvatar, GenerationKindVoice:
		return true
	}
	return false
}

type GenerationStatus string

const (
	GenerationQueued     GenerationStatus = "queued"
	GenerationGenerating GenerationStatus = "generating"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationError      GenerationStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s GenerationStatus) Terminal() bool {
	return s == GenerationCompleted || s == GenerationError
}

// GenerationJob tracks one asynchronous unit of work at the external media
// provider (video render, avatar training, voice clone). The provider drives
// the transitions; we only observe them. Once a job reaches completed or
// error it never changes again.
type GenerationJob struct {
	ID            string
	UserID        string
	MentorID      string
	Kind          GenerationKind
	ProviderJobID string
	Status        GenerationStatus
	Progress      int    // 0..100, cosmetic only
	ResultURL     string // set only when Status == completed
	ErrorMessage  string // set only when Status == error
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewGenerationJob(userID, mentorID string, kind GenerationKind, providerJobID string) (*GenerationJob, error) {
	if userID == "" || providerJobID == "" || !kind.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &GenerationJob{
		ID:            uuid.NewString(),
		UserID:        userID,
		MentorID:      mentorID,
		Kind:          kind,
		ProviderJobID: providerJobID,
		Status:        GenerationQueued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Advance records a non-terminal observation from the provider.
func (j *GenerationJob) Advance(status GenerationStatus, progress int) error {
	if j.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	if status.Terminal() {
		return domain.ErrInvalidArgument
	}
	j.Status = status
	if progress > j.Progress {
		if progress > 100 {
			progress = 100
		}
		j.Progress = progress
	}
	j.UpdatedAt = time.Now()
	return nil
}

// Complete moves the job to its completed terminal state.
func (j *GenerationJob) Complete(resultURL string) error {
	if j.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	j.Status = GenerationCompleted
	j.Progress = 100
	j.ResultURL = resultURL
	j.ErrorMessage = ""
	j.UpdatedAt = time.Now()
	return nil
}

// Fail moves the job to its error terminal state.
func (j *GenerationJob) Fail(message string) error {
	if j.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	j.Status = GenerationError
	j.ErrorMessage = message
	j.ResultURL = ""
	j.UpdatedAt = time.Now()
	return nil
}
