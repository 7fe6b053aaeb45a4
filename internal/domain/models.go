package domain

import "time"

// TaskType distinguishes system-seeded quests from player-funded ones.
type TaskType string

const (
	TaskOfficial TaskType = "OFFICIAL"
	TaskUGC      TaskType = "UGC"
)

// QuestionType selects the answer widget and the shape of Task.Options.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
)

// User carries a player's identity and economy state. CooldownUntil is nil
// when the player is not in a submission cooldown.
type User struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"displayName"`
	Avatar        string     `json:"avatar"`
	Points        int        `json:"points"`
	CooldownUntil *time.Time `json:"cooldownUntil,omitempty"`
}

// Task is a quiz challenge. CreatorID is empty for OFFICIAL tasks; Options
// is populated only for MULTIPLE_CHOICE. TotalCost is what the creator paid
// to fund the task (0 for OFFICIAL).
type Task struct {
	ID                  string       `json:"id"`
	CreatorID           string       `json:"creatorId,omitempty"`
	Type                TaskType     `json:"type"`
	QuestionType        QuestionType `json:"questionType"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	Options             []string     `json:"options,omitempty"`
	Answer              string       `json:"answer"`
	RewardPerPerson     int          `json:"rewardPerPerson"`
	MaxParticipants     int          `json:"maxParticipants"`
	CurrentParticipants int          `json:"currentParticipants"`
	TotalCost           int          `json:"totalCost"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// Full reports whether the task has reached its participant capacity.
func (t Task) Full() bool {
	return t.CurrentParticipants >= t.MaxParticipants
}

// Submission records one user's single attempt at one task. At most one
// submission per (TaskID, UserID) pair is ever accepted.
type Submission struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	UserID       string    `json:"userId"`
	Answer       string    `json:"answer"`
	Correct      bool      `json:"correct"`
	PointsEarned int       `json:"pointsEarned"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Reward is a shop item purchasable with points.
type Reward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsCost  int    `json:"pointsCost"`
	Stock       int    `json:"stock"`
	Image       string `json:"image,omitempty"`
}

// Catalog is the startup seed set for a world: the official quests plus the
// reward shop inventory.
type Catalog struct {
	Tasks   []Task   `json:"tasks"`
	Rewards []Reward `json:"rewards"`
}

// LeaderboardEntry is a snapshot-friendly view of a player.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
}

// Leaderboard captures the ordered scoreboard for a world.
type Leaderboard struct {
	WorldID   string             `json:"worldId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
