// Package insights derives read-only analytics from a user's check-in
// history. Every function is pure: same records plus the same reference time
// always produce the same output, and degenerate input (empty lists, zero
// denominators) degrades to neutral defaults instead of erroring.
package insights

import (
	"math"
	"sort"
	"time"

	"ai-mentor-platform/internal/domain/model"
)

// minGoalAttempts is the floor below which a goal's success rate is too noisy
// to call a strength or a struggle.
const minGoalAttempts = 2

// minSampleSize is the number of check-ins below which a report flags itself
// as insufficient rather than showing misleading zeros.
const minSampleSize = 3

type StreakSummary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type MentorUsage struct {
	MentorID string `json:"mentor_id"`
	Count    int    `json:"count"`
}

type GoalRate struct {
	Text        string `json:"text"`
	Attempts    int    `json:"attempts"`
	Completions int    `json:"completions"`
	Rate        int    `json:"rate"` // 0..100
}

type Report struct {
	Streaks         StreakSummary `json:"streaks"`
	MoodTrend       int           `json:"mood_trend"` // signed percent
	ConsistencyRate int           `json:"consistency_rate"`
	MentorUsage     []MentorUsage `json:"mentor_usage"`
	GoalRates       []GoalRate    `json:"goal_rates"`
	Strengths       []GoalRate    `json:"strengths"`
	Struggles       []GoalRate    `json:"struggles"`
	SampleSize      int           `json:"sample_size"`
	WindowDays      int           `json:"window_days"`
	Insufficient    bool          `json:"insufficient"`
}

// BuildReport computes the full analytics report for one user's check-ins.
// The records must be sorted ascending by CreatedAt. windowDays bounds the
// consistency denominator; now is the caller's reference clock.
func BuildReport(checkins []model.CheckinRecord, windowDays int, now time.Time) *Report {
	scores := make([]int, 0, len(checkins))
	for _, c := range checkins {
		scores = append(scores, c.MoodScore)
	}
	rates := GoalSuccessRates(checkins)
	return &Report{
		Streaks:         Streaks(checkins, now),
		MoodTrend:       MoodTrend(scores),
		ConsistencyRate: ConsistencyRate(len(checkins), windowDays),
		MentorUsage:     MentorHistogram(checkins),
		GoalRates:       rates,
		Strengths:       strongest(rates, true),
		Struggles:       strongest(rates, false),
		SampleSize:      len(checkins),
		WindowDays:      windowDays,
		Insufficient:    len(checkins) < minSampleSize,
	}
}

// Streaks walks check-ins in chronological order and counts runs of
// consecutive calendar days. Multiple check-ins on one day count once.
// The current streak is the trailing run, but only while it is still warm:
// if the latest check-in day is before yesterday relative to now, the
// current streak is 0.
func Streaks(checkins []model.CheckinRecord, now time.Time) StreakSummary {
	if len(checkins) == 0 {
		return StreakSummary{}
	}

	// Distinct calendar days, preserving chronological order.
	days := make([]time.Time, 0, len(checkins))
	for _, c := range checkins {
		d := midnight(c.CreatedAt)
		if len(days) == 0 || !d.Equal(days[len(days)-1]) {
			days = append(days, d)
		}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := run
	yesterday := midnight(now).AddDate(0, 0, -1)
	if days[len(days)-1].Before(yesterday) {
		current = 0
	}
	return StreakSummary{Current: current, Longest: longest}
}

// MoodTrend compares the mean of the second half of the series against the
// first half and returns the signed percent change, rounded. An empty half
// or a zero first-half mean yields 0.
func MoodTrend(scores []int) int {
	half := len(scores) / 2
	first, second := scores[:half], scores[half:]
	if len(first) == 0 || len(second) == 0 {
		return 0
	}
	fm, sm := mean(first), mean(second)
	if fm == 0 {
		return 0
	}
	return int(math.Round((sm - fm) / fm * 100))
}

// GoalCompletionRate is the percent of goals completed within one check-in.
// A check-in with no goals rates 0.
func GoalCompletionRate(goals []model.GoalEntry) int {
	if len(goals) == 0 {
		return 0
	}
	done := 0
	for _, g := range goals {
		if g.Completed {
			done++
		}
	}
	return roundPercent(done, len(goals))
}

// ConsistencyRate is check-ins performed over days available, as a percent.
func ConsistencyRate(checkinCount, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	return roundPercent(checkinCount, windowDays)
}

// MentorHistogram counts check-ins per mentor, sorted by count descending.
// Ties keep first-encountered order.
func MentorHistogram(checkins []model.CheckinRecord) []MentorUsage {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, c := range checkins {
		if _, seen := counts[c.MentorID]; !seen {
			order = append(order, c.MentorID)
		}
		counts[c.MentorID]++
	}
	out := make([]MentorUsage, 0, len(order))
	for _, id := range order {
		out = append(out, MentorUsage{MentorID: id, Count: counts[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// GoalSuccessRates groups goal entries across check-ins by exact goal text
// and computes per-goal completion rates, in first-encountered order.
func GoalSuccessRates(checkins []model.CheckinRecord) []GoalRate {
	type tally struct{ attempts, completions int }
	tallies := make(map[string]*tally)
	order := make([]string, 0)
	for _, c := range checkins {
		for _, g := range c.Goals {
			tl, seen := tallies[g.Text]
			if !seen {
				tl = &tally{}
				tallies[g.Text] = tl
				order = append(order, g.Text)
			}
			tl.attempts++
			if g.Completed {
				tl.completions++
			}
		}
	}
	out := make([]GoalRate, 0, len(order))
	for _, text := range order {
		tl := tallies[text]
		out = append(out, GoalRate{
			Text:        text,
			Attempts:    tl.attempts,
			Completions: tl.completions,
			Rate:        roundPercent(tl.completions, tl.attempts),
		})
	}
	return out
}

// strongest filters goals with enough attempts and orders them by rate,
// best-first when top is true, worst-first otherwise. Ties keep the input
// (first-encountered) order.
func strongest(rates []GoalRate, top bool) []GoalRate {
	out := make([]GoalRate, 0, len(rates))
	for _, r := range rates {
		if r.Attempts >= minGoalAttempts {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if top {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Rate < out[j].Rate
	})
	return out
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func roundPercent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}
