package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/usecase"
)

const defaultPageSize = 50

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeDomainError maps domain sentinels onto HTTP statuses. Unknown errors
// become opaque 500s; internals never leak to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", "resource already exists")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument", "invalid request")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
	case errors.Is(err, domain.ErrMentorNotAvailable):
		writeError(w, http.StatusForbidden, "mentor_not_available", "mentor not available to this account")
	case errors.Is(err, domain.ErrJobTerminal):
		writeError(w, http.StatusConflict, "job_terminal", "job already finished")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid request body")
		return false
	}
	return true
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	return limit
}

// ===== auth =====

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.userUC.Register(r.Context(), req.Email, req.Password, req.DisplayName, req.Timezone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.auth.Mint(w, user.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.auth.Mint(w, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ===== account =====

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type settingsRequest struct {
	RemindersEnabled bool   `json:"reminders_enabled"`
	Timezone         string `json:"timezone"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.userUC.UpdateSettings(r.Context(), UserIDFrom(r.Context()), req.RemindersEnabled, req.Timezone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ===== check-ins =====

type checkinRequest struct {
	MentorID   string            `json:"mentor_id"`
	MoodScore  int               `json:"mood_score"`
	Goals      []model.GoalEntry `json:"goals"`
	Reflection string            `json:"reflection"`
}

func (s *Server) handleSubmitCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, err := s.checkinUC.Submit(r.Context(), UserIDFrom(r.Context()), usecase.CheckinInput{
		MentorID:   req.MentorID,
		MoodScore:  req.MoodScore,
		Goals:      req.Goals,
		Reflection: req.Reflection,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListCheckins(w http.ResponseWriter, r *http.Request) {
	records, err := s.checkinUC.List(r.Context(), UserIDFrom(r.Context()), limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

func (s *Server) handleGetCheckin(w http.ResponseWriter, r *http.Request) {
	record, err := s.checkinUC.Get(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ===== insights =====

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window"))
	if windowDays == 0 {
		windowDays = 30
	}
	report, err := s.insightsUC.Report(r.Context(), UserIDFrom(r.Context()), windowDays)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ===== mentors =====

func (s *Server) handleListMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := s.mentorUC.List(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": mentors})
}

type mentorCreateRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Personality string `json:"personality"`
	AvatarID    string `json:"avatar_id"`
	VoiceID     string `json:"voice_id"`
}

func (s *Server) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	var req mentorCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mentor, err := s.mentorUC.CreateCustom(r.Context(), UserIDFrom(r.Context()), req.Name, req.Category, req.Personality, req.AvatarID, req.VoiceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mentor)
}

func (s *Server) handleGetMentor(w http.ResponseWriter, r *http.Request) {
	mentor, err := s.mentorUC.Get(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mentor)
}

func (s *Server) handleDeleteMentor(w http.ResponseWriter, r *http.Request) {
	if err := s.mentorUC.DeleteCustom(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== studio =====

type videoRequest struct {
	CheckinID string `json:"checkin_id"`
}

func (s *Server) handleRequestVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	job, err := s.studioUC.RequestVideo(r.Context(), UserIDFrom(r.Context()), req.CheckinID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

type avatarRequest struct {
	Name            string   `json:"name"`
	SourceImageURLs []string `json:"source_image_urls"`
}

func (s *Server) handleRequestAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	job, err := s.studioUC.RequestAvatar(r.Context(), UserIDFrom(r.Context()), req.Name, req.SourceImageURLs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

type voiceRequest struct {
	Name       string   `json:"name"`
	SampleURLs []string `json:"sample_urls"`
}

func (s *Server) handleRequestVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	job, err := s.studioUC.RequestVoice(r.Context(), UserIDFrom(r.Context()), req.Name, req.SampleURLs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.studioUC.ListJobs(r.Context(), UserIDFrom(r.Context()), limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.studioUC.Job(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	if err := s.studioUC.CancelJob(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
