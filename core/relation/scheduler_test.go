package relation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FiresOnce(t *testing.T) {
	repo := newMemRepo()
	sched := NewScheduler(repo, nil)

	var fired []SyncOutcome
	sched.OnFired(func(op PendingOperation, out SyncOutcome) {
		fired = append(fired, out)
	})

	u := &User{}
	p := sched.Schedule(u, PendingOperation{Kind: OperationLink, First: Of(u), Second: ID(5)})
	assert.Equal(t, StateScheduled, p.State())
	assert.Equal(t, AfterInsert, p.Event())

	_, done := p.Outcome()
	assert.False(t, done)

	// The save assigns the identity before the event fires
	u.ID = 42
	u.Events().Trigger(AfterInsert, u, nil)
	u.Events().Trigger(AfterInsert, u, nil)

	require.Len(t, fired, 1)
	assert.Equal(t, StatusCreated, fired[0].Status)
	assert.Equal(t, IntKey(42), fired[0].First)
	assert.Equal(t, StateFired, p.State())

	out, done := p.Outcome()
	assert.True(t, done)
	assert.Equal(t, StatusCreated, out.Status)
	assert.Equal(t, []int64{5}, repo.seconds(42))
}

func TestScheduler_Order(t *testing.T) {
	repo := newMemRepo()
	sched := NewScheduler(repo, nil)

	var order []OperationKind
	sched.OnFired(func(op PendingOperation, _ SyncOutcome) {
		order = append(order, op.Kind)
	})

	u := &User{Model: Model{ID: 1}}
	first := sched.Schedule(u, PendingOperation{Kind: OperationLink, First: Of(u), Second: ID(2)})
	second := sched.Schedule(u, PendingOperation{Kind: OperationUnlink, First: Of(u), Second: ID(2)})
	assert.Equal(t, AfterUpdate, first.Event())

	u.Events().Trigger(AfterUpdate, u, nil)

	assert.Equal(t, []OperationKind{OperationLink, OperationUnlink}, order)
	out, _ := second.Outcome()
	assert.Equal(t, StatusDeleted, out.Status)
	assert.Empty(t, repo.seconds(1))
}

func TestScheduler_Cancel(t *testing.T) {
	repo := newMemRepo()
	sched := NewScheduler(repo, nil)

	u := &User{}
	p := sched.Schedule(u, PendingOperation{Kind: OperationLink, First: Of(u), Second: ID(5)})

	assert.True(t, sched.Cancel(p))
	assert.False(t, sched.Cancel(p))
	assert.Equal(t, StateCancelled, p.State())
	assert.Equal(t, 0, u.Events().Len(AfterInsert))

	u.ID = 1
	u.Events().Trigger(AfterInsert, u, nil)
	assert.Empty(t, repo.seconds(1))
}

func TestScheduler_ReentrantSave(t *testing.T) {
	repo := newMemRepo()
	sched := NewScheduler(repo, nil)

	u := &User{Model: Model{ID: 3}}
	// A save issued from inside the handler must not run the operation again
	sched.OnFired(func(PendingOperation, SyncOutcome) {
		u.Events().Trigger(AfterUpdate, u, nil)
	})
	sched.Schedule(u, PendingOperation{Kind: OperationLink, First: Of(u), Second: ID(8)})

	u.Events().Trigger(AfterUpdate, u, nil)

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, []int64{8}, repo.seconds(3))
}

func TestScheduler_KeylessEntity(t *testing.T) {
	sched := NewScheduler(newMemRepo(), nil)

	k := &keyless{}
	p := sched.Schedule(k, PendingOperation{Kind: OperationLink, First: Of(k), Second: ID(1)})
	k.Events().Trigger(AfterUpdate, k, nil)

	out, done := p.Outcome()
	assert.True(t, done)
	assert.True(t, out.Failed())
	assert.ErrorIs(t, out.Err, ErrConfiguration)
}

func TestPendingState_String(t *testing.T) {
	assert.Equal(t, "scheduled", StateScheduled.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "unknown", PendingState(9).String())
}

func TestScheduler_FiresInsideGormSave(t *testing.T) {
	s, db := setupSync(t, nil)

	u := &User{Name: "dee"}
	p := s.Scheduler().Schedule(u, PendingOperation{Kind: OperationLink, First: Of(u), Second: ID(3)})

	require.NoError(t, db.Create(u).Error)

	out, done := p.Outcome()
	require.True(t, done)
	assert.Equal(t, StatusCreated, out.Status)
	assert.Equal(t, [][2]string{{fmt.Sprint(u.ID), "3"}}, pairs(t, s))

	// The owner insert ran exactly once
	var users int64
	require.NoError(t, db.Model(&User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestScheduler_UnlinkInsideGormSave(t *testing.T) {
	s, db := setupSync(t, nil)
	ctx := context.Background()

	u := &User{Name: "eve"}
	require.NoError(t, db.Create(u).Error)
	_, err := s.LinkOne(ctx, Of(u), ID(4), Options{})
	require.NoError(t, err)

	p := s.Scheduler().Schedule(u, PendingOperation{Kind: OperationUnlink, First: Of(u), Second: ID(4)})
	u.Name = "eva"
	require.NoError(t, db.Save(u).Error)

	out, done := p.Outcome()
	require.True(t, done)
	assert.Equal(t, StatusDeleted, out.Status)
	assert.Empty(t, pairs(t, s))

	var stored User
	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.Equal(t, "eva", stored.Name)
}
