package app

import (
	"sort"
	"sync"
	"time"

	"starquest/internal/domain"
	"starquest/internal/economy"
)

// World is the in-memory state of one game session. All collections live
// behind a single mutex: every player action is handled to completion before
// the next one, so the economy functions always see a consistent snapshot
// taken at one instant.
type World struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu          sync.RWMutex
	seeded      bool
	members     map[string]*member
	present     map[string]struct{}
	tasks       []domain.Task
	submissions []domain.Submission
	rewards     []domain.Reward
	subscribers map[chan domain.Leaderboard]struct{}
}

type member struct {
	user       domain.User
	lastActive time.Time
}

func newWorld(id string) *World {
	return newWorldWithClock(id, time.Now)
}

// newWorldWithClock allows deterministic timestamps in tests.
func newWorldWithClock(id string, now func() time.Time) *World {
	return &World{
		id:          id,
		createdAt:   now(),
		now:         now,
		members:     make(map[string]*member),
		present:     make(map[string]struct{}),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// seed installs the official quest board and the reward shop. It runs at
// most once per world; later calls are no-ops.
func (w *World) seed(catalog domain.Catalog) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seeded {
		return
	}
	w.tasks = append([]domain.Task(nil), catalog.Tasks...)
	w.rewards = append([]domain.Reward(nil), catalog.Rewards...)
	w.seeded = true
}

func (w *World) isSeeded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.seeded
}

func (w *World) login(displayName, newUserID string) domain.User {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	for _, m := range w.members {
		if m.user.DisplayName == displayName {
			m.lastActive = now
			w.present[m.user.ID] = struct{}{}
			w.broadcastLocked()
			return m.user
		}
	}

	user := domain.User{
		ID:          newUserID,
		DisplayName: displayName,
		Avatar:      "https://api.dicebear.com/7.x/avataaars/svg?seed=" + displayName,
		Points:      1000,
	}
	w.members[user.ID] = &member{user: user, lastActive: now}
	w.present[user.ID] = struct{}{}
	w.broadcastLocked()
	return user
}

func (w *World) logout(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.present, userID)
}

func (w *World) isEmpty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.present) == 0
}

// IsEmpty reports whether no player is currently logged in.
func (w *World) IsEmpty() bool {
	return w.isEmpty()
}

func (w *World) user(userID string) (domain.User, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.members[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return m.user, nil
}

func (w *World) taskList() []domain.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Task(nil), w.tasks...)
}

func (w *World) rewardList() []domain.Reward {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Reward(nil), w.rewards...)
}

func (w *World) submissionsFor(userID string) []domain.Submission {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Submission
	for _, s := range w.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

func (w *World) createTask(creatorID string, p economy.TaskParams, taskID string) (domain.Task, domain.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	m, ok := w.members[creatorID]
	if !ok {
		return domain.Task{}, domain.User{}, domain.ErrUserNotFound
	}

	iss, err := economy.IssueTask(m.user, p, taskID, now)
	if err != nil {
		return domain.Task{}, domain.User{}, err
	}

	m.user = iss.Creator
	m.lastActive = now
	w.tasks = append([]domain.Task{iss.Task}, w.tasks...)
	w.broadcastLocked()
	return iss.Task, iss.Creator, nil
}

func (w *World) submitAnswer(userID, taskID, answer, submissionID string) (economy.Verdict, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	m, ok := w.members[userID]
	if !ok {
		return economy.Verdict{}, domain.ErrUserNotFound
	}
	idx := -1
	for i := range w.tasks {
		if w.tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return economy.Verdict{}, domain.ErrTaskNotFound
	}

	verdict, err := economy.AdjudicateSubmission(m.user, w.tasks[idx], answer, w.submissions, submissionID, now)
	if err != nil {
		return economy.Verdict{}, err
	}

	m.user = verdict.User
	m.lastActive = now
	w.submissions = append(w.submissions, verdict.Submission)
	w.tasks[idx].CurrentParticipants += verdict.ParticipantDelta
	w.broadcastLocked()
	return verdict, nil
}

func (w *World) purchaseReward(userID, rewardID string) (domain.Reward, domain.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	m, ok := w.members[userID]
	if !ok {
		return domain.Reward{}, domain.User{}, domain.ErrUserNotFound
	}
	idx := -1
	for i := range w.rewards {
		if w.rewards[i].ID == rewardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Reward{}, domain.User{}, domain.ErrRewardNotFound
	}
	reward := w.rewards[idx]
	if reward.Stock <= 0 {
		return domain.Reward{}, domain.User{}, domain.ErrRewardOutOfStock
	}
	if m.user.Points < reward.PointsCost {
		return domain.Reward{}, domain.User{}, &domain.InsufficientPointsError{PointsCost: reward.PointsCost}
	}

	m.user.Points -= reward.PointsCost
	m.lastActive = now
	w.rewards[idx].Stock--
	w.broadcastLocked()
	return w.rewards[idx], m.user, nil
}

func (w *World) leaderboard() domain.Leaderboard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

func (w *World) subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	w.mu.Lock()
	w.subscribers[ch] = struct{}{}
	initial := w.snapshotLocked()
	w.mu.Unlock()

	ch <- initial

	cancel := func() {
		w.mu.Lock()
		if _, ok := w.subscribers[ch]; ok {
			delete(w.subscribers, ch)
			close(ch)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

func (w *World) broadcastLocked() domain.Leaderboard {
	lb := w.snapshotLocked()
	for ch := range w.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the oldest pending update so slow consumers never
			// block a commit.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (w *World) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(w.members))
	for _, m := range w.members {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      m.user.ID,
			DisplayName: m.user.DisplayName,
			Points:      m.user.Points,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		// Tie-break by who reached the balance earlier, then name.
		mi := w.members[entries[i].UserID]
		mj := w.members[entries[j].UserID]
		if mi != nil && mj != nil && !mi.lastActive.Equal(mj.lastActive) {
			return mi.lastActive.Before(mj.lastActive)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Leaderboard{
		WorldID:   w.id,
		Entries:   entries,
		UpdatedAt: w.now(),
	}
}
