//go:build !integration

package web

import (
	"context"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/insights"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/usecase"
)

// Use-case mocks with overridable function fields. Unset fields return
// ErrNotFound so forgotten wiring fails loudly in tests.

type mockUserUC struct {
	RegisterFunc       func(ctx context.Context, email, password, displayName, timezone string) (*model.User, error)
	AuthenticateFunc   func(ctx context.Context, email, password string) (*model.User, error)
	GetFunc            func(ctx context.Context, userID string) (*model.User, error)
	UpdateSettingsFunc func(ctx context.Context, userID string, remindersEnabled bool, timezone string) (*model.User, error)
}

var _ usecase.UserUseCase = (*mockUserUC)(nil)

func (m *mockUserUC) Register(ctx context.Context, email, password, displayName, timezone string) (*model.User, error) {
	if m.RegisterFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.RegisterFunc(ctx, email, password, displayName, timezone)
}

func (m *mockUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if m.AuthenticateFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.AuthenticateFunc(ctx, email, password)
}

func (m *mockUserUC) Get(ctx context.Context, userID string) (*model.User, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, userID)
}

func (m *mockUserUC) UpdateSettings(ctx context.Context, userID string, remindersEnabled bool, timezone string) (*model.User, error) {
	if m.UpdateSettingsFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.UpdateSettingsFunc(ctx, userID, remindersEnabled, timezone)
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) { return 0, nil }

type mockMentorUC struct {
	ListFunc         func(ctx context.Context, userID string) ([]*model.Mentor, error)
	GetFunc          func(ctx context.Context, userID, mentorID string) (*model.Mentor, error)
	CreateCustomFunc func(ctx context.Context, userID, name, category, personality, avatarID, voiceID string) (*model.Mentor, error)
	DeleteCustomFunc func(ctx context.Context, userID, mentorID string) error
}

var _ usecase.MentorUseCase = (*mockMentorUC)(nil)

func (m *mockMentorUC) List(ctx context.Context, userID string) ([]*model.Mentor, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, userID)
}

func (m *mockMentorUC) Get(ctx context.Context, userID, mentorID string) (*model.Mentor, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, userID, mentorID)
}

func (m *mockMentorUC) CreateCustom(ctx context.Context, userID, name, category, personality, avatarID, voiceID string) (*model.Mentor, error) {
	if m.CreateCustomFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.CreateCustomFunc(ctx, userID, name, category, personality, avatarID, voiceID)
}

func (m *mockMentorUC) DeleteCustom(ctx context.Context, userID, mentorID string) error {
	if m.DeleteCustomFunc == nil {
		return domain.ErrNotFound
	}
	return m.DeleteCustomFunc(ctx, userID, mentorID)
}

type mockCheckinUC struct {
	SubmitFunc func(ctx context.Context, userID string, in usecase.CheckinInput) (*model.CheckinRecord, error)
	ListFunc   func(ctx context.Context, userID string, limit int) ([]*model.CheckinRecord, error)
	GetFunc    func(ctx context.Context, userID, checkinID string) (*model.CheckinRecord, error)
}

var _ usecase.CheckinUseCase = (*mockCheckinUC)(nil)

func (m *mockCheckinUC) Submit(ctx context.Context, userID string, in usecase.CheckinInput) (*model.CheckinRecord, error) {
	if m.SubmitFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.SubmitFunc(ctx, userID, in)
}

func (m *mockCheckinUC) List(ctx context.Context, userID string, limit int) ([]*model.CheckinRecord, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, userID, limit)
}

func (m *mockCheckinUC) Get(ctx context.Context, userID, checkinID string) (*model.CheckinRecord, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, userID, checkinID)
}

type mockInsightsUC struct {
	ReportFunc func(ctx context.Context, userID string, windowDays int) (*insights.Report, error)
}

var _ usecase.InsightsUseCase = (*mockInsightsUC)(nil)

func (m *mockInsightsUC) Report(ctx context.Context, userID string, windowDays int) (*insights.Report, error) {
	if m.ReportFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.ReportFunc(ctx, userID, windowDays)
}

func (m *mockInsightsUC) Invalidate(ctx context.Context, userID string) error { return nil }

type mockStudioUC struct {
	RequestVideoFunc  func(ctx context.Context, userID, checkinID string) (*model.GenerationJob, error)
	RequestAvatarFunc func(ctx context.Context, userID, name string, sourceImageURLs []string) (*model.GenerationJob, error)
	RequestVoiceFunc  func(ctx context.Context, userID, name string, sampleURLs []string) (*model.GenerationJob, error)
	JobFunc           func(ctx context.Context, userID, jobID string) (*model.GenerationJob, error)
	CancelJobFunc     func(ctx context.Context, userID, jobID string) error
	ListJobsFunc      func(ctx context.Context, userID string, limit int) ([]*model.GenerationJob, error)
}

var _ usecase.StudioUseCase = (*mockStudioUC)(nil)

func (m *mockStudioUC) RequestVideo(ctx context.Context, userID, checkinID string) (*model.GenerationJob, error) {
	if m.RequestVideoFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.RequestVideoFunc(ctx, userID, checkinID)
}

func (m *mockStudioUC) RequestAvatar(ctx context.Context, userID, name string, sourceImageURLs []string) (*model.GenerationJob, error) {
	if m.RequestAvatarFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.RequestAvatarFunc(ctx, userID, name, sourceImageURLs)
}

func (m *mockStudioUC) RequestVoice(ctx context.Context, userID, name string, sampleURLs []string) (*model.GenerationJob, error) {
	if m.RequestVoiceFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.RequestVoiceFunc(ctx, userID, name, sampleURLs)
}

func (m *mockStudioUC) Job(ctx context.Context, userID, jobID string) (*model.GenerationJob, error) {
	if m.JobFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.JobFunc(ctx, userID, jobID)
}

func (m *mockStudioUC) CancelJob(ctx context.Context, userID, jobID string) error {
	if m.CancelJobFunc == nil {
		return domain.ErrNotFound
	}
	return m.CancelJobFunc(ctx, userID, jobID)
}

func (m *mockStudioUC) ListJobs(ctx context.Context, userID string, limit int) ([]*model.GenerationJob, error) {
	if m.ListJobsFunc == nil {
		return nil, nil
	}
	return m.ListJobsFunc(ctx, userID, limit)
}
