package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Field is a tri-state partial-update value: unchanged, set to a value, or
// cleared. The JSON form follows the usual PATCH convention: an absent key
// leaves the field unchanged, an explicit null clears it, anything else sets
// it. This removes the need to guess intent from presence-vs-absence of map
// keys in update payloads.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns a Field that sets the target to v.
func Set[T any](v T) Field[T] { return Field[T]{present: true, value: v} }

// Clear returns a Field that clears the target.
func Clear[T any]() Field[T] { return Field[T]{present: true, null: true} }

// Unchanged reports whether the field was omitted from the update.
func (f Field[T]) Unchanged() bool { return !f.present }

// IsClear reports whether the field was explicitly cleared.
func (f Field[T]) IsClear() bool { return f.present && f.null }

// Value returns the new value and true when the field sets one.
func (f Field[T]) Value() (T, bool) {
	if f.present && !f.null {
		return f.value, true
	}
	var zero T
	return zero, false
}

// ApplyPtr applies the update to an optional destination.
func (f Field[T]) ApplyPtr(dst **T) {
	switch {
	case !f.present:
	case f.null:
		*dst = nil
	default:
		v := f.value
		*dst = &v
	}
}

// Apply applies the update to a required destination. Clearing is a no-op
// here; callers validate that required fields are never cleared.
func (f Field[T]) Apply(dst *T) {
	if f.present && !f.null {
		*dst = f.value
	}
}

// IsZero reports whether the field is unchanged, so that omitzero drops it
// from marshaled update payloads.
func (f Field[T]) IsZero() bool { return !f.present }

var jsonNull = []byte("null")

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		f.null = true
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return jsonNull, nil
	}
	return json.Marshal(f.value)
}

// PersonUpdate carries a partial update for a person.
type PersonUpdate struct {
	Name          Field[string]          `json:"name,omitzero"`
	Email         Field[string]          `json:"email,omitzero"`
	Role          Field[string]          `json:"role,omitzero"`
	PhotoURL      Field[string]          `json:"photoUrl,omitzero"`
	DateOfBirth   Field[time.Time]       `json:"dateOfBirth,omitzero"`
	PlaceOfBirth  Field[string]          `json:"placeOfBirth,omitzero"`
	MaritalStatus Field[string]          `json:"maritalStatus,omitzero"`
	SpouseID      Field[string]          `json:"spouseId,omitzero"`
	ChildrenIDs   Field[[]string]        `json:"childrenIds,omitzero"`
	Attributes    Field[[]AttributePair] `json:"attributes,omitzero"`
}

// PlaceUpdate carries a partial update for a place.
type PlaceUpdate struct {
	Name       Field[string]          `json:"name,omitzero"`
	City       Field[string]          `json:"city,omitzero"`
	Country    Field[string]          `json:"country,omitzero"`
	Address    Field[string]          `json:"address,omitzero"`
	PlaceType  Field[string]          `json:"placeType,omitzero"`
	Capacity   Field[int]             `json:"capacity,omitzero"`
	Rating     Field[float64]         `json:"rating,omitzero"`
	Attributes Field[[]AttributePair] `json:"attributes,omitzero"`
}

// EventUpdate carries a partial update for an event. Changing PlaceID
// re-derives the place of every memory attached to the event.
type EventUpdate struct {
	Title      Field[string]          `json:"title,omitzero"`
	Date       Field[time.Time]       `json:"date,omitzero"`
	DateType   Field[string]          `json:"dateType,omitzero"`
	PlaceID    Field[string]          `json:"placeId,omitzero"`
	Attributes Field[[]AttributePair] `json:"attributes,omitzero"`
}

// MemoryUpdate carries a partial update for a memory's own fields.
// Associations are changed through the dedicated operations only.
type MemoryUpdate struct {
	Title       Field[string]    `json:"title,omitzero"`
	Description Field[string]    `json:"description,omitzero"`
	Date        Field[time.Time] `json:"date,omitzero"`
	DateType    Field[string]    `json:"dateType,omitzero"`
	MediaName   Field[string]    `json:"mediaName,omitzero"`
}

// ReflectionUpdate carries a partial update for a reflection.
type ReflectionUpdate struct {
	Title   Field[string] `json:"title,omitzero"`
	Content Field[string] `json:"content,omitzero"`
}

// CollectionUpdate carries a partial update for a collection.
type CollectionUpdate struct {
	Name      Field[string]   `json:"name,omitzero"`
	Details   Field[string]   `json:"details,omitzero"`
	MemberIDs Field[[]string] `json:"memberIds,omitzero"`
	MemoryIDs Field[[]string] `json:"memoryIds,omitzero"`
	EventIDs  Field[[]string] `json:"eventIds,omitzero"`
	PlaceIDs  Field[[]string] `json:"placeIds,omitzero"`
	PeopleIDs Field[[]string] `json:"peopleIds,omitzero"`
}
