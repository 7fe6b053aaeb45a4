package app

import (
	"errors"
	"testing"
	"time"

	"starquest/internal/domain"
	"starquest/internal/economy"
)

func TestWorldCooldownWindow(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	world := newWorldWithClock("world-1", func() time.Time { return clock })
	world.seed(domain.Catalog{Tasks: []domain.Task{
		{ID: "t-1", Answer: "火星", RewardPerPerson: 50, MaxParticipants: 10},
		{ID: "t-2", Answer: "沉", RewardPerPerson: 30, MaxParticipants: 10},
	}})
	user := world.login("Alice", "u-1")

	if _, err := world.submitAnswer(user.ID, "t-1", "火星", "s-1"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	clock = clock.Add(10 * time.Second)
	_, err := world.submitAnswer(user.ID, "t-2", "沉", "s-2")
	var cooldown *domain.CooldownActiveError
	if !errors.As(err, &cooldown) {
		t.Fatalf("expected CooldownActiveError, got %v", err)
	}
	if cooldown.RemainingSeconds != 20 {
		t.Fatalf("expected exactly 20s remaining, got %d", cooldown.RemainingSeconds)
	}

	clock = clock.Add(economy.SubmissionCooldown)
	if _, err := world.submitAnswer(user.ID, "t-2", "沉", "s-3"); err != nil {
		t.Fatalf("expected cooldown expired, got %v", err)
	}
}

func TestWorldRewardStockRunsOut(t *testing.T) {
	world := newWorld("world-1")
	world.seed(domain.Catalog{Rewards: []domain.Reward{
		{ID: "r-1", Name: "限量卡", PointsCost: 100, Stock: 1},
	}})
	alice := world.login("Alice", "u-1")
	bob := world.login("Bob", "u-2")

	if _, _, err := world.purchaseReward(alice.ID, "r-1"); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	_, _, err := world.purchaseReward(bob.ID, "r-1")
	if !errors.Is(err, domain.ErrRewardOutOfStock) {
		t.Fatalf("expected ErrRewardOutOfStock, got %v", err)
	}
}

func TestWorldSeedRunsOnce(t *testing.T) {
	world := newWorld("world-1")
	world.seed(domain.Catalog{Tasks: []domain.Task{{ID: "t-1"}}})
	world.seed(domain.Catalog{Tasks: []domain.Task{{ID: "t-other"}, {ID: "t-extra"}}})
	tasks := world.taskList()
	if len(tasks) != 1 || tasks[0].ID != "t-1" {
		t.Fatalf("expected first seed kept, got %+v", tasks)
	}
}
