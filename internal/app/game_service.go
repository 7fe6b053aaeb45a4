package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"starquest/internal/domain"
	"starquest/internal/economy"

	"github.com/google/uuid"
)

// WorldRepository abstracts how game worlds are stored (in-memory, Redis, etc).
type WorldRepository interface {
	GetOrCreate(worldID string) *World
	Get(worldID string) (*World, bool)
	DeleteIfEmpty(worldID string)
}

// CatalogRepository loads the world seed content (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// GameService is the session controller. It exclusively owns the user, task,
// submission, and reward collections through the world it resolves per call,
// delegates every decision to the pure economy functions, and commits the
// deltas they return.
type GameService struct {
	worlds  WorldRepository
	catalog CatalogRepository
	newID   func() string
}

func NewGameService(worlds WorldRepository, catalog CatalogRepository) *GameService {
	return &GameService{worlds: worlds, catalog: catalog, newID: uuid.NewString}
}

// NewWorld is exported for infrastructure layers that need to seed worlds.
func NewWorld(id string) *World {
	return newWorld(id)
}

// NewWorldWithClock is test-only for deterministic timestamps.
func NewWorldWithClock(id string, now func() time.Time) *World {
	return newWorldWithClock(id, now)
}

// Login resolves a player by display name, registering a new one with the
// starting balance when the name is unknown. The world is created and seeded
// from the catalog on first use.
func (s *GameService) Login(ctx context.Context, worldID, displayName string) (domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.User{}, fmt.Errorf("display name required")
	}
	world, err := s.ensureWorld(ctx, worldID)
	if err != nil {
		return domain.User{}, err
	}
	return world.login(displayName, s.newID()), nil
}

// Logout drops a player's presence and removes the world once nobody is
// logged in, resetting its state like a page reload would.
func (s *GameService) Logout(_ context.Context, worldID, userID string) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return
	}
	world.logout(userID)
	if world.isEmpty() {
		s.worlds.DeleteIfEmpty(worldID)
	}
}

// User returns the current state of one player.
func (s *GameService) User(_ context.Context, worldID, userID string) (domain.User, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return domain.User{}, domain.ErrWorldNotFound
	}
	return world.user(userID)
}

// Tasks returns the quest board, newest player-authored tasks first.
func (s *GameService) Tasks(_ context.Context, worldID string) ([]domain.Task, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return nil, domain.ErrWorldNotFound
	}
	return world.taskList(), nil
}

// Rewards returns the shop inventory.
func (s *GameService) Rewards(_ context.Context, worldID string) ([]domain.Reward, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return nil, domain.ErrWorldNotFound
	}
	return world.rewardList(), nil
}

// Submissions returns one player's attempt history.
func (s *GameService) Submissions(_ context.Context, worldID, userID string) ([]domain.Submission, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return nil, domain.ErrWorldNotFound
	}
	return world.submissionsFor(userID), nil
}

// CreateTask validates the authoring form, prices the task through the
// economy core, and on success commits the funded task and the debited
// creator into the world.
func (s *GameService) CreateTask(_ context.Context, worldID, creatorID string, p economy.TaskParams) (domain.Task, domain.User, error) {
	if err := validateTaskParams(p); err != nil {
		return domain.Task{}, domain.User{}, err
	}
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return domain.Task{}, domain.User{}, domain.ErrWorldNotFound
	}
	return world.createTask(creatorID, p, s.newID())
}

// SubmitAnswer runs an attempt through the adjudicator and commits the whole
// verdict: the updated user, the appended submission record, and the task's
// participant increment.
func (s *GameService) SubmitAnswer(_ context.Context, worldID, userID, taskID, answer string) (economy.Verdict, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return economy.Verdict{}, domain.ErrWorldNotFound
	}
	return world.submitAnswer(userID, taskID, answer, s.newID())
}

// PurchaseReward spends points on a shop item, decrementing its stock.
func (s *GameService) PurchaseReward(_ context.Context, worldID, userID, rewardID string) (domain.Reward, domain.User, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return domain.Reward{}, domain.User{}, domain.ErrWorldNotFound
	}
	return world.purchaseReward(userID, rewardID)
}

// Leaderboard returns the current scoreboard snapshot.
func (s *GameService) Leaderboard(_ context.Context, worldID string) (domain.Leaderboard, error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrWorldNotFound
	}
	return world.leaderboard(), nil
}

// Subscribe returns a channel that receives leaderboard updates for a world.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, worldID string) (<-chan domain.Leaderboard, func(), error) {
	world, ok := s.worlds.Get(worldID)
	if !ok {
		return nil, nil, domain.ErrWorldNotFound
	}
	ch, cancel := world.subscribe()
	return ch, cancel, nil
}

func (s *GameService) ensureWorld(ctx context.Context, worldID string) (*World, error) {
	world := s.worlds.GetOrCreate(worldID)
	if world.isSeeded() {
		return world, nil
	}
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	world.seed(catalog)
	return world, nil
}

// validateTaskParams enforces the field-shape preconditions the economy core
// expects its caller to uphold.
func validateTaskParams(p economy.TaskParams) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title required", domain.ErrInvalidTaskParams)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description required", domain.ErrInvalidTaskParams)
	}
	if strings.TrimSpace(p.Answer) == "" {
		return fmt.Errorf("%w: answer required", domain.ErrInvalidTaskParams)
	}
	if p.RewardPerPerson <= 0 {
		return fmt.Errorf("%w: reward per person must be positive", domain.ErrInvalidTaskParams)
	}
	if p.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max participants must be positive", domain.ErrInvalidTaskParams)
	}
	switch p.QuestionType {
	case domain.MultipleChoice:
		if len(p.Options) == 0 {
			return fmt.Errorf("%w: multiple choice needs options", domain.ErrInvalidTaskParams)
		}
	case domain.ShortAnswer:
		if len(p.Options) != 0 {
			return fmt.Errorf("%w: short answer takes no options", domain.ErrInvalidTaskParams)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", domain.ErrInvalidTaskParams, p.QuestionType)
	}
	return nil
}
