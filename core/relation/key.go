package relation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"relation-manager/core/utils"
)

// KeyKind tells whether a Key holds an integer or a string.
type KeyKind uint8

const (
	// KeyInt is an integer key. It is the default column type of link tables.
	KeyInt KeyKind = iota + 1
	// KeyString is a string key.
	KeyString
)

// Key is the canonical form of an endpoint reference.
// Keys are comparable and can be used as map keys; "7" and 7 produce equal keys.
type Key struct {
	kind KeyKind
	i    int64
	s    string
}

// IntKey returns an integer key.
func IntKey(v int64) Key {
	return Key{kind: KeyInt, i: v}
}

// StringKey returns a key for a literal string. Numeric strings become integer keys.
func StringKey(v string) Key {
	if i, ok := utils.ToInt64(v); ok {
		return IntKey(i)
	}
	return Key{kind: KeyString, s: v}
}

// keyFromValue normalizes a raw column or primary key value.
func keyFromValue(v any) Key {
	if i, ok := utils.ToInt64(v); ok {
		return IntKey(i)
	}
	return StringKey(utils.ToString(v))
}

// Kind returns the key kind, or zero for the zero Key.
func (k Key) Kind() KeyKind {
	return k.kind
}

// IsZero reports whether the key is unset, the integer 0, or the empty string.
// Zero keys never identify a persisted entity.
func (k Key) IsZero() bool {
	switch k.kind {
	case KeyInt:
		return k.i == 0
	case KeyString:
		return k.s == ""
	default:
		return true
	}
}

// Value returns the key as a value suitable for a query parameter.
func (k Key) Value() any {
	if k.kind == KeyString {
		return k.s
	}
	return k.i
}

// String implements fmt.Stringer.
func (k Key) String() string {
	if k.kind == KeyString {
		return k.s
	}
	return strconv.FormatInt(k.i, 10)
}

// MarshalJSON encodes integer keys as numbers and string keys as strings.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Value())
}

// UnmarshalJSON accepts a number or a string.
func (k *Key) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*k = Key{}
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return fmt.Errorf("key %s is not an integer: %w", val, err)
		}
		*k = IntKey(i)
	case string:
		*k = StringKey(val)
	default:
		return fmt.Errorf("key must be a number or a string, got %T", v)
	}
	return nil
}

type refKind uint8

const (
	refNone refKind = iota
	refID
	refString
	refEntity
)

// Ref is a reference to one side of an association: a raw identifier, a string,
// or an entity handle. It is resolved to a Key once, by Extract.
type Ref struct {
	kind   refKind
	id     int64
	str    string
	entity Entity
}

// ID references an endpoint by its integer identifier.
func ID(v int64) Ref {
	return Ref{kind: refID, id: v}
}

// Str references an endpoint by a string. Numeric strings are equivalent to ID.
func Str(v string) Ref {
	return Ref{kind: refString, str: v}
}

// Of references an endpoint by its entity handle.
func Of(e Entity) Ref {
	if e == nil {
		return Ref{}
	}
	return Ref{kind: refEntity, entity: e}
}

// RefOf converts loosely typed input into a Ref.
// Integers become ID refs, entities become entity refs, Refs pass through,
// and anything else is treated as a literal string.
func RefOf(v any) Ref {
	switch val := v.(type) {
	case nil:
		return Ref{}
	case Ref:
		return val
	case Key:
		if val.kind == KeyString {
			return Str(val.s)
		}
		return ID(val.i)
	case Entity:
		return Of(val)
	case string:
		return Str(val)
	}
	if i, ok := utils.ToInt64(v); ok {
		return ID(i)
	}
	return Str(utils.ToString(v))
}

// RefsOf converts each value with RefOf.
func RefsOf(vals ...any) []Ref {
	refs := make([]Ref, 0, len(vals))
	for _, v := range vals {
		refs = append(refs, RefOf(v))
	}
	return refs
}

// IDs builds ID refs for a list of identifiers.
func IDs(ids ...int64) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, ID(id))
	}
	return refs
}

// IsEmpty reports whether the reference points at nothing: the zero Ref, ID(0),
// an empty string or a nil entity.
func (r Ref) IsEmpty() bool {
	switch r.kind {
	case refID:
		return r.id == 0
	case refString:
		return r.str == ""
	case refEntity:
		return r.entity == nil
	default:
		return true
	}
}

// Entity returns the entity handle if the reference holds one.
func (r Ref) Entity() (Entity, bool) {
	if r.kind != refEntity || r.entity == nil {
		return nil, false
	}
	return r.entity, true
}

// isUnsaved reports whether the reference is an entity that has no assigned identity yet.
func (r Ref) isUnsaved() bool {
	e, ok := r.Entity()
	return ok && e.IsNewRecord()
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	switch r.kind {
	case refID:
		return strconv.FormatInt(r.id, 10)
	case refString:
		return r.str
	case refEntity:
		if pk, ok := r.entity.PrimaryKey(); ok && !r.entity.IsNewRecord() {
			return fmt.Sprintf("%T(%v)", r.entity, pk)
		}
		return fmt.Sprintf("%T(new)", r.entity)
	default:
		return "<empty>"
	}
}

// Extract normalizes a reference into its canonical Key.
// Numeric and numeric-string refs become integer keys; entities yield their primary key.
// An entity that exposes no primary key fails with ErrConfiguration.
func Extract(ref Ref) (Key, error) {
	switch ref.kind {
	case refID:
		return IntKey(ref.id), nil
	case refString:
		return StringKey(ref.str), nil
	case refEntity:
		pk, ok := ref.entity.PrimaryKey()
		if !ok {
			return Key{}, fmt.Errorf("%w: %T has no primary key", ErrConfiguration, ref.entity)
		}
		return keyFromValue(pk), nil
	default:
		return Key{}, fmt.Errorf("%w: empty endpoint reference", ErrConfiguration)
	}
}

// ExtractMany normalizes a list of references, preserving order and duplicates.
func ExtractMany(refs []Ref) ([]Key, error) {
	keys := make([]Key, 0, len(refs))
	for _, ref := range refs {
		k, err := Extract(ref)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// compact drops empty references.
func compact(refs []Ref) []Ref {
	out := make([]Ref, 0, len(refs))
	for _, r := range refs {
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	return out
}
