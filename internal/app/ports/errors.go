package ports

import (
	"errors"
	"fmt"
	"time"

	"famiverse/internal/domain/familiar"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrSessionExpired       = errors.New("mutation session expired or already used")
	ErrInsufficientPoints   = errors.New("insufficient evolution points")
	ErrNoCompatibleMutation = errors.New("no compatible mutation category")
	ErrStoreUnavailable     = errors.New("record store unavailable")
)

// CooldownError reports a care action attempted before its cooldown elapsed.
type CooldownError struct {
	Action    familiar.CareAction
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("action %q on cooldown for %s", e.Action, e.Remaining.Round(time.Second))
}

// IncompatibleError reports a mutation rejected by the compatibility matrix.
type IncompatibleError struct {
	Category    familiar.Category
	Conflicts   []familiar.Category
	Suggestions []familiar.Category
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("mutation category %q conflicts with %v", e.Category, e.Conflicts)
}
