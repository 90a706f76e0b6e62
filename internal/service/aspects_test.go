package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/services"
)

func aspectNames(aspects []models.Aspect) []string {
	names := make([]string, len(aspects))
	for i, a := range aspects {
		names[i] = a.Name
	}
	return names
}

func TestAspectService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := fullCaller(f.alice)
	off := false

	_, err := f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: "Work"})
	assert.ErrorIs(t, err, domain.ErrValidation, "chat_enabled is required")

	work, err := f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: "Work", ChatEnabled: &off})
	require.NoError(t, err)
	assert.Equal(t, 1, work.Order)
	assert.False(t, work.ChatEnabled)

	_, err = f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: "work", ChatEnabled: &off})
	assert.ErrorIs(t, err, domain.ErrAspectNameTaken)

	_, err = f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: strings.Repeat("x", 256), ChatEnabled: &off})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Names are per owner
	_, err = f.aspects.Create(ctx, fullCaller(f.bob), &services.CreateAspectRequest{Name: "Work", ChatEnabled: &off})
	assert.NoError(t, err)
}

func TestAspectService_UpdateReorders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := fullCaller(f.alice)

	chat := true
	for _, name := range []string{"Work", "Family", "Gym"} {
		_, err := f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: name, ChatEnabled: &chat})
		require.NoError(t, err)
	}
	list, err := f.aspects.List(ctx, alice)
	require.NoError(t, err)
	gym := list[3]

	order := 0
	updated, err := f.aspects.Update(ctx, alice, strconv.FormatInt(gym.ID, 10), &services.UpdateAspectRequest{Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Order)

	list, err = f.aspects.List(ctx, alice)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Gym", "Friends", "Work", "Family"}, aspectNames(list)); diff != "" {
		t.Errorf("aspect order mismatch (-want +got):\n%s", diff)
	}
	for i, a := range list {
		assert.Equal(t, i, a.Order)
	}

	// Past the end clamps to the last position
	far := 42
	_, err = f.aspects.Update(ctx, alice, strconv.FormatInt(gym.ID, 10), &services.UpdateAspectRequest{Order: &far})
	require.NoError(t, err)
	list, err = f.aspects.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Gym", list[len(list)-1].Name)
}

func TestAspectService_UpdateFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := fullCaller(f.alice)
	id := strconv.FormatInt(f.friends.ID, 10)

	name := "Close friends"
	chat := true
	updated, err := f.aspects.Update(ctx, alice, id, &services.UpdateAspectRequest{Name: &name, ChatEnabled: &chat})
	require.NoError(t, err)
	assert.Equal(t, "Close friends", updated.Name)
	assert.True(t, updated.ChatEnabled)

	_, err = f.aspects.Update(ctx, fullCaller(f.bob), id, &services.UpdateAspectRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrAspectNotFound)

	negative := -1
	_, err = f.aspects.Update(ctx, alice, id, &services.UpdateAspectRequest{Order: &negative})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAspectService_RenameCollisionKeepsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := fullCaller(f.alice)

	chat := true
	for _, name := range []string{"B", "C"} {
		_, err := f.aspects.Create(ctx, alice, &services.CreateAspectRequest{Name: name, ChatEnabled: &chat})
		require.NoError(t, err)
	}

	name := "c"
	order := 2
	_, err := f.aspects.Update(ctx, alice, strconv.FormatInt(f.friends.ID, 10),
		&services.UpdateAspectRequest{Name: &name, Order: &order})
	assert.ErrorIs(t, err, domain.ErrAspectNameTaken)

	list, err := f.aspects.List(ctx, alice)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"Friends", "B", "C"}, aspectNames(list)); diff != "" {
		t.Errorf("aspect order mismatch (-want +got):\n%s", diff)
	}
	for i, a := range list {
		assert.Equal(t, i, a.Order)
	}
}

func TestAspectService_FindAndDestroy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := strconv.FormatInt(f.friends.ID, 10)

	_, err := f.aspects.Find(ctx, fullCaller(f.alice), "friends")
	assert.ErrorIs(t, err, domain.ErrAspectNotFound)

	_, err = f.aspects.Find(ctx, fullCaller(f.bob), id)
	assert.ErrorIs(t, err, domain.ErrAspectNotFound)

	got, err := f.aspects.Find(ctx, fullCaller(f.alice), id)
	require.NoError(t, err)
	assert.Equal(t, "Friends", got.Name)

	require.NoError(t, f.aspects.Destroy(ctx, fullCaller(f.alice), id))
	err = f.aspects.Destroy(ctx, fullCaller(f.alice), id)
	assert.ErrorIs(t, err, domain.ErrAspectNotFound)
}
