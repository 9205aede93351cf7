package points

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"youbuidl/internal/orbis"
)

type fakeProfiles struct {
	profiles map[string]orbis.Profile
	getErr   error
	saveErr  error
	saved    []orbis.Profile
}

func (f *fakeProfiles) GetProfile(_ context.Context, did string) (orbis.Profile, error) {
	if f.getErr != nil {
		return orbis.Profile{}, f.getErr
	}
	return f.profiles[did], nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, profile orbis.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, profile)
	return nil
}

func TestAwardIncrementsBalance(t *testing.T) {
	store := &fakeProfiles{profiles: map[string]orbis.Profile{
		"did:pkh:alice": {DID: "did:pkh:alice", Points: 40},
	}}
	awarder := NewAwarder(store, zerolog.Nop())

	balance, err := awarder.Award(context.Background(), "did:pkh:alice", Rules["receive_donation"])
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if balance != 140 {
		t.Errorf("expected balance 140, got %d", balance)
	}
	if len(store.saved) != 1 || store.saved[0].Points != 140 {
		t.Errorf("expected profile saved with 140 points, got %+v", store.saved)
	}
}

func TestAwardRejectsBadInput(t *testing.T) {
	awarder := NewAwarder(&fakeProfiles{}, zerolog.Nop())
	if _, err := awarder.Award(context.Background(), "", 10); err == nil {
		t.Error("expected error for empty did")
	}
	if _, err := awarder.Award(context.Background(), "did:pkh:alice", 0); err == nil {
		t.Error("expected error for non-positive amount")
	}
}

func TestAwardPropagatesStoreFailure(t *testing.T) {
	store := &fakeProfiles{getErr: errors.New("store down")}
	awarder := NewAwarder(store, zerolog.Nop())
	if _, err := awarder.Award(context.Background(), "did:pkh:alice", 10); err == nil {
		t.Error("expected error when profile load fails")
	}
}
