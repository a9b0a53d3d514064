package relation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	saved := &User{Model: Model{ID: 7}}

	tests := []struct {
		name string
		ref  Ref
		want Key
	}{
		{"ID", ID(7), IntKey(7)},
		{"NumericString", Str("7"), IntKey(7)},
		{"Entity", Of(saved), IntKey(7)},
		{"LooseInt", RefOf(uint16(7)), IntKey(7)},
		{"LooseString", RefOf(" 7 "), IntKey(7)},
		{"Word", Str("admin"), StringKey("admin")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(Ref{})
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = Extract(Of(&keyless{}))
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = ExtractMany([]Ref{ID(1), Of(&keyless{})})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestKey(t *testing.T) {
	assert.Equal(t, KeyInt, StringKey("42").Kind())
	assert.Equal(t, KeyString, StringKey("tag").Kind())
	assert.True(t, IntKey(0).IsZero())
	assert.True(t, StringKey("").IsZero())
	assert.True(t, Key{}.IsZero())
	assert.False(t, IntKey(3).IsZero())

	keys := map[Key]int{IntKey(7): 1}
	_, ok := keys[StringKey("7")]
	assert.True(t, ok)

	b, err := json.Marshal([]Key{IntKey(3), StringKey("go")})
	require.NoError(t, err)
	assert.JSONEq(t, `[3, "go"]`, string(b))
}

func TestRef(t *testing.T) {
	assert.True(t, Ref{}.IsEmpty())
	assert.True(t, Str("").IsEmpty())
	assert.True(t, Of(nil).IsEmpty())
	assert.True(t, RefOf(nil).IsEmpty())
	assert.True(t, ID(0).IsEmpty())
	assert.False(t, ID(1).IsEmpty())
	assert.False(t, Str("0").IsEmpty())

	fresh := &User{}
	assert.True(t, Of(fresh).isUnsaved())
	assert.Equal(t, "*relation.User(new)", Of(fresh).String())
	assert.Equal(t, "*relation.User(4)", Of(&User{Model: Model{ID: 4}}).String())

	refs := RefsOf(1, "2", StringKey("x"), fresh)
	require.Len(t, refs, 4)
	_, isEntity := refs[3].Entity()
	assert.True(t, isEntity)

	assert.Len(t, compact([]Ref{ID(1), {}, Str(""), ID(2)}), 2)
}

func TestKey_UnmarshalJSON(t *testing.T) {
	var got []Key
	require.NoError(t, json.Unmarshal([]byte(`[3, "go", "12", null]`), &got))
	assert.Equal(t, []Key{IntKey(3), StringKey("go"), IntKey(12), {}}, got)

	var k Key
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &k))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &k))
}
