package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrWorldNotFound is returned when a world has not been initialized.
	ErrWorldNotFound = errors.New("world not found")
	// ErrUserNotFound is returned when a user ID is not registered in the world.
	ErrUserNotFound = errors.New("user not found in world")
	// ErrTaskNotFound indicates a submitted task ID is invalid.
	ErrTaskNotFound = errors.New("task not found")
	// ErrRewardNotFound indicates a purchase names an unknown shop item.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrRewardOutOfStock rejects a purchase of a sold-out reward.
	ErrRewardOutOfStock = errors.New("reward out of stock")
	// ErrAlreadySubmitted rejects a second attempt at the same task.
	ErrAlreadySubmitted = errors.New("task already attempted")
	// ErrTaskFull rejects submissions to a task at participant capacity.
	ErrTaskFull = errors.New("task is already full")
	// ErrCatalogNotFound indicates the world seed content could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidTaskParams rejects a task whose fields fail shape validation
	// before any pricing happens.
	ErrInvalidTaskParams = errors.New("invalid task parameters")
)

// InsufficientFundsError rejects a task issuance the creator cannot afford.
// TotalCost carries the computed price so callers can display it.
type InsufficientFundsError struct {
	TotalCost int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient points: need %d", e.TotalCost)
}

// CooldownActiveError rejects a submission during the anti-spam window.
type CooldownActiveError struct {
	RemainingSeconds int
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active: wait %ds", e.RemainingSeconds)
}

// InsufficientPointsError rejects a reward purchase the buyer cannot afford.
type InsufficientPointsError struct {
	PointsCost int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: reward costs %d", e.PointsCost)
}
