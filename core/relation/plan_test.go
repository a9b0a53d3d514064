package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(ids ...int64) []Key {
	out := make([]Key, 0, len(ids))
	for _, id := range ids {
		out = append(out, IntKey(id))
	}
	return out
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name         string
		current      []Key
		desired      []Key
		clearOnEmpty bool
		wantRemove   []Key
		wantAdd      []Key
		wantNoop     bool
	}{
		{
			name:       "Replace",
			current:    keys(2, 4, 6),
			desired:    keys(4, 6, 8),
			wantRemove: keys(2),
			wantAdd:    keys(8),
		},
		{
			name:    "Unchanged",
			current: keys(1, 2),
			desired: keys(2, 1),
		},
		{
			name:       "Duplicates",
			current:    keys(1, 1, 3),
			desired:    keys(5, 5),
			wantRemove: keys(1, 3),
			wantAdd:    keys(5),
		},
		{
			name:     "EmptyKeeps",
			current:  keys(1, 2),
			wantNoop: true,
		},
		{
			name:         "EmptyClears",
			current:      keys(1, 2),
			clearOnEmpty: true,
			wantRemove:   keys(1, 2),
		},
		{
			name:    "FromNothing",
			desired: keys(9),
			wantAdd: keys(9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remove, add, noop := Diff(tt.current, tt.desired, tt.clearOnEmpty)
			assert.Equal(t, tt.wantNoop, noop)
			assert.ElementsMatch(t, tt.wantRemove, remove)
			assert.ElementsMatch(t, tt.wantAdd, add)
		})
	}
}

func TestPlan_RemovalsFirst(t *testing.T) {
	repo := newMemRepo([2]int64{1, 2}, [2]int64{1, 4}, [2]int64{1, 6})
	s, err := New(userBooks, repo, NewResolver(nil), nil)
	require.NoError(t, err)

	plan, err := s.Plan(context.Background(), IDs(1), IDs(4, 6, 8), Options{})
	require.NoError(t, err)

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, ActionUnlink, plan.Actions[0].Type)
	assert.Equal(t, IntKey(2), plan.Actions[0].TargetKey)
	assert.Equal(t, ActionLink, plan.Actions[1].Type)
	assert.Equal(t, IntKey(8), plan.Actions[1].TargetKey)

	assert.Equal(t, PlanSummary{Primaries: 1, Current: 3, ToRemove: 1, ToAdd: 1, Unchanged: 2}, plan.Summary)

	// Planning writes nothing
	assert.Equal(t, []int64{2, 4, 6}, repo.seconds(1))
}

func TestPlan_EmptyDesired(t *testing.T) {
	repo := newMemRepo([2]int64{1, 2})
	s, err := New(userBooks, repo, NewResolver(nil), nil)
	require.NoError(t, err)

	plan, err := s.Plan(context.Background(), IDs(1), nil, Options{})
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionNone, plan.Actions[0].Type)

	plan, err = s.Plan(context.Background(), IDs(1), nil, Options{ClearOnEmpty: Enable})
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, ActionUnlink, plan.Actions[0].Type)
	assert.True(t, plan.Config.ClearOnEmpty)
}

func TestPlan_UnsavedEndpoints(t *testing.T) {
	repo := newMemRepo([2]int64{1, 2})
	s, err := New(userBooks, repo, NewResolver(nil), nil)
	require.NoError(t, err)

	fresh := &Book{}
	plan, err := s.Plan(context.Background(), IDs(1), []Ref{Of(fresh)}, Options{})
	require.NoError(t, err)

	// The unsaved target replaces every current association
	require.Len(t, plan.Actions, 2)
	assert.Equal(t, ActionUnlink, plan.Actions[0].Type)
	assert.Equal(t, ActionLink, plan.Actions[1].Type)
	assert.True(t, plan.Actions[1].TargetKey.IsZero())

	// An unsaved primary has nothing stored
	plan, err = s.Plan(context.Background(), []Ref{Of(&User{})}, IDs(2, 3), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Summary.Current)
	assert.Equal(t, 2, plan.Summary.ToAdd)
}

func TestPlan_ConfigurationError(t *testing.T) {
	s, err := New(userBooks, newMemRepo(), NewResolver(nil), nil)
	require.NoError(t, err)

	_, err = s.Plan(context.Background(), IDs(1), []Ref{Of(&keyless{})}, Options{})
	assert.ErrorIs(t, err, ErrConfiguration)
}
