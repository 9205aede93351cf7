package points

import (
	"context"
	"fmt"

	"youbuidl/internal/infra"
	"youbuidl/internal/orbis"
)

// Rules are the fixed point values awarded for community activity.
var Rules = map[string]int64{
	"create_post":     10,
	"receive_like":    1,
	"receive_comment": 2,
	"receive_donation": 100,
	"engage_like":     1,
	"engage_comment":  1,
}

// ProfileStore is the slice of the content store the awarder needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, did string) (orbis.Profile, error)
	UpdateProfile(ctx context.Context, profile orbis.Profile) error
}

// Awarder increments a user's point balance, which lives in their
// content-store profile. The read-modify-write is best effort: the store is
// the only authority and concurrent awards may race there, matching the
// behavior the feed has always had.
type Awarder struct {
	store  ProfileStore
	logger infra.Logger
}

func NewAwarder(store ProfileStore, logger infra.Logger) *Awarder {
	return &Awarder{store: store, logger: logger}
}

// Award adds amount points to the profile identified by did and returns the
// new balance.
func (a *Awarder) Award(ctx context.Context, did string, amount int64) (int64, error) {
	if did == "" {
		return 0, fmt.Errorf("points: did is required")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("points: amount must be positive")
	}

	profile, err := a.store.GetProfile(ctx, did)
	if err != nil {
		return 0, fmt.Errorf("points: load profile: %w", err)
	}
	profile.Points += amount
	if err := a.store.UpdateProfile(ctx, profile); err != nil {
		return 0, fmt.Errorf("points: save profile: %w", err)
	}

	a.logger.Debug().Str("did", did).Int64("awarded", amount).Int64("balance", profile.Points).Msg("points awarded")
	return profile.Points, nil
}
