// Package economy holds the pure decision functions of the quest economy:
// pricing and funding of player-authored tasks, and validation plus grading
// of answer submissions. Functions here never touch a clock, never generate
// ids, and never mutate their inputs; the session controller supplies the
// time snapshot and commits the returned deltas.
package economy

import (
	"strings"
	"time"

	"starquest/internal/domain"
)

const (
	// FeeBasisPoints is the system surcharge on the reward pool, paid by
	// the task creator and not distributed to participants.
	FeeBasisPoints = 2000

	// SubmissionCooldown is the mandatory wait after any accepted attempt,
	// correct or not.
	SubmissionCooldown = 30 * time.Second
)

// TaskParams are the creator-supplied fields of a new UGC task. Field shape
// (non-empty strings, positive numbers, options iff multiple choice) is
// validated by the caller; this package checks only economic feasibility.
type TaskParams struct {
	Title           string
	Description     string
	QuestionType    domain.QuestionType
	Options         []string
	Answer          string
	RewardPerPerson int
	MaxParticipants int
}

// TaskCost prices a task: reward pool plus the system fee, rounded half up
// to a whole point. The same value is shown to the creator and debited.
func TaskCost(rewardPerPerson, maxParticipants int) int {
	pool := rewardPerPerson * maxParticipants
	fee := (pool*FeeBasisPoints + 5000) / 10000
	return pool + fee
}

// Issuance is the delta set of a successful task creation: the funded task
// and the debited creator. The caller adopts both.
type Issuance struct {
	Task      domain.Task
	Creator   domain.User
	TotalCost int
}

// IssueTask decides whether creator can afford to fund a task with the given
// parameters. On success it returns the new task (zero participants, type
// UGC) and the creator with the cost debited. On failure it returns
// *domain.InsufficientFundsError carrying the computed cost; no state is
// produced.
func IssueTask(creator domain.User, p TaskParams, id string, now time.Time) (Issuance, error) {
	totalCost := TaskCost(p.RewardPerPerson, p.MaxParticipants)
	if creator.Points < totalCost {
		return Issuance{}, &domain.InsufficientFundsError{TotalCost: totalCost}
	}

	task := domain.Task{
		ID:                  id,
		CreatorID:           creator.ID,
		Type:                domain.TaskUGC,
		QuestionType:        p.QuestionType,
		Title:               p.Title,
		Description:         p.Description,
		Options:             p.Options,
		Answer:              p.Answer,
		RewardPerPerson:     p.RewardPerPerson,
		MaxParticipants:     p.MaxParticipants,
		CurrentParticipants: 0,
		TotalCost:           totalCost,
		CreatedAt:           now,
	}

	creator.Points -= totalCost
	return Issuance{Task: task, Creator: creator, TotalCost: totalCost}, nil
}

// Verdict is the complete delta set of an accepted submission attempt. The
// caller commits all of it: store the updated user, append the submission
// record, and add ParticipantDelta to the task's participant count.
type Verdict struct {
	Submission       domain.Submission
	User             domain.User
	Correct          bool
	PointsEarned     int
	ParticipantDelta int
}

// AdjudicateSubmission validates an answer attempt against the anti-abuse
// rules, grades it, and derives the updated user. Checks run in order, first
// failure wins: duplicate attempt, cooldown, capacity. An accepted attempt
// always starts a cooldown and always records a submission, even when the
// answer is wrong and zero points are earned.
func AdjudicateSubmission(user domain.User, task domain.Task, answer string, history []domain.Submission, id string, now time.Time) (Verdict, error) {
	for _, s := range history {
		if s.TaskID == task.ID && s.UserID == user.ID {
			return Verdict{}, domain.ErrAlreadySubmitted
		}
	}

	if user.CooldownUntil != nil && now.Before(*user.CooldownUntil) {
		remaining := int(ceilSeconds(user.CooldownUntil.Sub(now)))
		return Verdict{}, &domain.CooldownActiveError{RemainingSeconds: remaining}
	}

	if task.Full() {
		return Verdict{}, domain.ErrTaskFull
	}

	correct := gradeAnswer(task.Answer, answer)
	earned := 0
	if correct {
		earned = task.RewardPerPerson
	}

	until := now.Add(SubmissionCooldown)
	user.Points += earned
	user.CooldownUntil = &until

	return Verdict{
		Submission: domain.Submission{
			ID:           id,
			TaskID:       task.ID,
			UserID:       user.ID,
			Answer:       answer,
			Correct:      correct,
			PointsEarned: earned,
			SubmittedAt:  now,
		},
		User:             user,
		Correct:          correct,
		PointsEarned:     earned,
		ParticipantDelta: 1,
	}, nil
}

// CooldownRemaining reports the whole seconds left in a user's cooldown at
// the given instant, zero when none is active.
func CooldownRemaining(user domain.User, now time.Time) int {
	if user.CooldownUntil == nil || !now.Before(*user.CooldownUntil) {
		return 0
	}
	return int(ceilSeconds(user.CooldownUntil.Sub(now)))
}

// gradeAnswer compares answers ignoring case and outer whitespace. Internal
// whitespace and punctuation are significant.
func gradeAnswer(expected, got string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(got))
}

func ceilSeconds(d time.Duration) int64 {
	secs := d / time.Second
	if d%time.Second > 0 {
		secs++
	}
	return int64(secs)
}
