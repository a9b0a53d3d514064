package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitter_Order(t *testing.T) {
	var e Emitter
	var calls []string

	e.On(AfterInsert, func(ev *Event) { calls = append(calls, ev.Data.(string)) }, "a")
	e.On(AfterInsert, func(ev *Event) { calls = append(calls, ev.Data.(string)) }, "b")
	e.On(AfterUpdate, func(ev *Event) { calls = append(calls, "update") }, nil)

	e.Trigger(AfterInsert, nil, nil)
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, 2, e.Len(AfterInsert))
}

func TestEmitter_Off(t *testing.T) {
	var e Emitter
	count := 0
	id := e.On(AfterUpdate, func(*Event) { count++ }, nil)

	assert.True(t, e.Off(AfterUpdate, id))
	assert.False(t, e.Off(AfterUpdate, id))

	e.Trigger(AfterUpdate, nil, nil)
	assert.Equal(t, 0, count)
}

func TestEmitter_ChangesDuringTrigger(t *testing.T) {
	var e Emitter
	var calls []string
	var second SubscriptionID

	e.On(AfterInsert, func(*Event) {
		calls = append(calls, "first")
		e.Off(AfterInsert, second)
		e.On(AfterInsert, func(*Event) { calls = append(calls, "late") }, nil)
	}, nil)
	second = e.On(AfterInsert, func(*Event) { calls = append(calls, "second") }, nil)

	e.Trigger(AfterInsert, nil, nil)
	assert.Equal(t, []string{"first"}, calls)

	calls = nil
	e.Trigger(AfterInsert, nil, nil)
	assert.Equal(t, []string{"first", "late"}, calls)
}

func TestModel_Events(t *testing.T) {
	u := &User{}
	assert.Same(t, u.Events(), u.Events())
	assert.True(t, u.IsNewRecord())

	u.ID = 3
	pk, ok := u.PrimaryKey()
	assert.True(t, ok)
	assert.Equal(t, int64(3), pk)
	assert.False(t, u.IsNewRecord())
}
