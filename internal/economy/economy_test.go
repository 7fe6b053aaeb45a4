package economy_test

import (
	"errors"
	"testing"
	"time"

	"starquest/internal/domain"
	"starquest/internal/economy"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTaskCost(t *testing.T) {
	cases := []struct {
		reward, capacity, want int
	}{
		{50, 10, 600},  // pool 500 + fee 100
		{30, 500, 18000},
		{1, 1, 1},      // pool 1 + fee 0.2 rounds to 0
		{3, 1, 4},      // fee 0.6 rounds up
		{1, 100, 120},
	}
	for _, c := range cases {
		if got := economy.TaskCost(c.reward, c.capacity); got != c.want {
			t.Fatalf("TaskCost(%d, %d) = %d, want %d", c.reward, c.capacity, got, c.want)
		}
	}
}

func TestIssueTaskDebitsCreator(t *testing.T) {
	creator := domain.User{ID: "u-1", DisplayName: "Alice", Points: 1000}
	iss, err := economy.IssueTask(creator, ugcParams(50, 10), "t-1", testNow)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if iss.TotalCost != 600 {
		t.Fatalf("expected total cost 600, got %d", iss.TotalCost)
	}
	if iss.Creator.Points != 400 {
		t.Fatalf("expected creator left with 400 points, got %d", iss.Creator.Points)
	}
	if iss.Task.CurrentParticipants != 0 || iss.Task.TotalCost != 600 {
		t.Fatalf("unexpected task state: %+v", iss.Task)
	}
	if iss.Task.Type != domain.TaskUGC || iss.Task.CreatorID != "u-1" {
		t.Fatalf("expected UGC task owned by creator, got %+v", iss.Task)
	}
	if iss.Task.ID != "t-1" || !iss.Task.CreatedAt.Equal(testNow) {
		t.Fatalf("expected injected id and timestamp, got %+v", iss.Task)
	}
	// input must not be mutated
	if creator.Points != 1000 {
		t.Fatalf("input creator mutated: %+v", creator)
	}
}

func TestIssueTaskInsufficientFunds(t *testing.T) {
	creator := domain.User{ID: "u-1", DisplayName: "Alice", Points: 500}
	_, err := economy.IssueTask(creator, ugcParams(50, 10), "t-1", testNow)

	var insufficient *domain.InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.TotalCost != 600 {
		t.Fatalf("expected error to carry cost 600, got %d", insufficient.TotalCost)
	}
}

func TestIssueTaskExactBalance(t *testing.T) {
	creator := domain.User{ID: "u-1", Points: 600}
	iss, err := economy.IssueTask(creator, ugcParams(50, 10), "t-1", testNow)
	if err != nil {
		t.Fatalf("expected exact balance to suffice: %v", err)
	}
	if iss.Creator.Points != 0 {
		t.Fatalf("expected creator drained to 0, got %d", iss.Creator.Points)
	}
}

func TestIssueTaskKeepsCooldown(t *testing.T) {
	until := testNow.Add(10 * time.Second)
	creator := domain.User{ID: "u-1", Points: 1000, CooldownUntil: &until}
	iss, err := economy.IssueTask(creator, ugcParams(50, 10), "t-1", testNow)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if iss.Creator.CooldownUntil == nil || !iss.Creator.CooldownUntil.Equal(until) {
		t.Fatalf("expected cooldown untouched, got %v", iss.Creator.CooldownUntil)
	}
}

func TestAdjudicateCorrectAnswer(t *testing.T) {
	user := domain.User{ID: "u-1", DisplayName: "Alice", Points: 100}
	task := officialTask()

	v, err := economy.AdjudicateSubmission(user, task, "火星", nil, "s-1", testNow)
	if err != nil {
		t.Fatalf("adjudicate failed: %v", err)
	}
	if !v.Correct || v.PointsEarned != 50 {
		t.Fatalf("expected correct answer worth 50, got correct=%v earned=%d", v.Correct, v.PointsEarned)
	}
	if v.User.Points != 150 {
		t.Fatalf("expected points 150, got %d", v.User.Points)
	}
	wantUntil := testNow.Add(economy.SubmissionCooldown)
	if v.User.CooldownUntil == nil || !v.User.CooldownUntil.Equal(wantUntil) {
		t.Fatalf("expected cooldown until %v, got %v", wantUntil, v.User.CooldownUntil)
	}
	if v.ParticipantDelta != 1 {
		t.Fatalf("expected participant delta 1, got %d", v.ParticipantDelta)
	}
	if v.Submission.TaskID != task.ID || v.Submission.UserID != "u-1" || !v.Submission.Correct {
		t.Fatalf("unexpected submission record: %+v", v.Submission)
	}
}

func TestAdjudicateGrading(t *testing.T) {
	cases := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact", "火星", true},
		{"outer whitespace", " 火星 ", true},
		{"latin case fold", "mars", false},
		{"wrong", "木星", false},
		{"internal whitespace not normalized", "火 星", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			user := domain.User{ID: "u-1", Points: 0}
			v, err := economy.AdjudicateSubmission(user, officialTask(), c.answer, nil, "s-1", testNow)
			if err != nil {
				t.Fatalf("adjudicate failed: %v", err)
			}
			if v.Correct != c.correct {
				t.Fatalf("answer %q: correct=%v, want %v", c.answer, v.Correct, c.correct)
			}
		})
	}
}

func TestAdjudicateCaseInsensitiveLatin(t *testing.T) {
	task := officialTask()
	task.Answer = "Jupiter"
	user := domain.User{ID: "u-1"}
	v, err := economy.AdjudicateSubmission(user, task, "  jUpItEr ", nil, "s-1", testNow)
	if err != nil {
		t.Fatalf("adjudicate failed: %v", err)
	}
	if !v.Correct {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestAdjudicateWrongAnswerStillCoolsDown(t *testing.T) {
	user := domain.User{ID: "u-2", Points: 80}
	v, err := economy.AdjudicateSubmission(user, officialTask(), "金星", nil, "s-1", testNow)
	if err != nil {
		t.Fatalf("adjudicate failed: %v", err)
	}
	if v.Correct || v.PointsEarned != 0 {
		t.Fatalf("expected incorrect zero-point verdict, got %+v", v)
	}
	if v.User.Points != 80 {
		t.Fatalf("expected points unchanged, got %d", v.User.Points)
	}
	wantUntil := testNow.Add(economy.SubmissionCooldown)
	if v.User.CooldownUntil == nil || !v.User.CooldownUntil.Equal(wantUntil) {
		t.Fatalf("expected cooldown advanced to %v, got %v", wantUntil, v.User.CooldownUntil)
	}
	if !v.Submission.SubmittedAt.Equal(testNow) || v.Submission.Correct {
		t.Fatalf("unexpected submission record: %+v", v.Submission)
	}
}

func TestAdjudicateDuplicateWins(t *testing.T) {
	task := officialTask()
	history := []domain.Submission{
		{ID: "s-0", TaskID: task.ID, UserID: "u-1", Correct: true},
	}
	// Duplicate is checked before cooldown and capacity: an active
	// cooldown and a full task must not change the reported reason.
	until := testNow.Add(10 * time.Second)
	user := domain.User{ID: "u-1", CooldownUntil: &until}
	task.CurrentParticipants = task.MaxParticipants

	_, err := economy.AdjudicateSubmission(user, task, "火星", history, "s-1", testNow)
	if !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestAdjudicateDuplicateIgnoresOtherPairs(t *testing.T) {
	task := officialTask()
	history := []domain.Submission{
		{ID: "s-0", TaskID: task.ID, UserID: "u-other"},
		{ID: "s-1", TaskID: "t-other", UserID: "u-1"},
	}
	user := domain.User{ID: "u-1"}
	if _, err := economy.AdjudicateSubmission(user, task, "火星", history, "s-2", testNow); err != nil {
		t.Fatalf("expected other pairs to be ignored: %v", err)
	}
}

func TestAdjudicateCooldown(t *testing.T) {
	until := testNow.Add(12500 * time.Millisecond)
	user := domain.User{ID: "u-1", CooldownUntil: &until}

	_, err := economy.AdjudicateSubmission(user, officialTask(), "火星", nil, "s-1", testNow)

	var cooldown *domain.CooldownActiveError
	if !errors.As(err, &cooldown) {
		t.Fatalf("expected CooldownActiveError, got %v", err)
	}
	if cooldown.RemainingSeconds != 13 {
		t.Fatalf("expected ceil to 13s remaining, got %d", cooldown.RemainingSeconds)
	}
}

func TestAdjudicateExpiredCooldown(t *testing.T) {
	until := testNow.Add(-time.Second)
	user := domain.User{ID: "u-1", CooldownUntil: &until}
	if _, err := economy.AdjudicateSubmission(user, officialTask(), "火星", nil, "s-1", testNow); err != nil {
		t.Fatalf("expected expired cooldown to pass: %v", err)
	}
}

func TestAdjudicateTaskFull(t *testing.T) {
	task := officialTask()
	task.MaxParticipants = 3
	task.CurrentParticipants = 3
	user := domain.User{ID: "u-fresh"}

	_, err := economy.AdjudicateSubmission(user, task, "火星", nil, "s-1", testNow)
	if !errors.Is(err, domain.ErrTaskFull) {
		t.Fatalf("expected ErrTaskFull, got %v", err)
	}
}

func TestCooldownRemaining(t *testing.T) {
	if got := economy.CooldownRemaining(domain.User{}, testNow); got != 0 {
		t.Fatalf("expected 0 for no cooldown, got %d", got)
	}
	until := testNow.Add(400 * time.Millisecond)
	got := economy.CooldownRemaining(domain.User{CooldownUntil: &until}, testNow)
	if got != 1 {
		t.Fatalf("expected sub-second remainder to round up to 1, got %d", got)
	}
}

func ugcParams(reward, capacity int) economy.TaskParams {
	return economy.TaskParams{
		Title:           "每日百科：地理篇",
		Description:     "哪一顆行星被稱為「紅色星球」？",
		QuestionType:    domain.MultipleChoice,
		Options:         []string{"金星", "火星", "木星", "土星"},
		Answer:          "火星",
		RewardPerPerson: reward,
		MaxParticipants: capacity,
	}
}

func officialTask() domain.Task {
	return domain.Task{
		ID:              "t-official-1",
		Type:            domain.TaskOfficial,
		QuestionType:    domain.MultipleChoice,
		Title:           "每日百科：地理篇",
		Description:     "哪一顆行星被稱為「紅色星球」？",
		Options:         []string{"金星", "火星", "木星", "土星"},
		Answer:          "火星",
		RewardPerPerson: 50,
		MaxParticipants: 1000,
	}
}
