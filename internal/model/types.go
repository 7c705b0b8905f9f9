package model

import "time"

// Plan names for the user subscription flag.
const (
	PlanFree = "free"
	PlanPaid = "paid"
)

// DateType describes the precision of a stored date value.
const (
	DateExact = "exact"
	DateDay   = "day"
	DateMonth = "month"
	DateYear  = "year"
)

// Media types accepted for a memory.
const (
	MediaPhoto    = "photo"
	MediaDocument = "document"
)

// Attribute entity-type scopes. EntityAll applies across person/event/place.
const (
	EntityPerson = "person"
	EntityEvent  = "event"
	EntityPlace  = "place"
	EntityAll    = "all"
)

// User represents an account in the system. Users are provisioned lazily on
// first authenticated request, together with a default collection.
type User struct {
	UserID              string    `json:"userId"`
	ExternalID          string    `json:"externalId"`
	Email               string    `json:"email"`
	Plan                string    `json:"plan"`
	Quota               int       `json:"quota"`
	DefaultCollectionID string    `json:"defaultCollectionId"`
	CreationTime        time.Time `json:"creationTime"`
	UpdateTime          time.Time `json:"updateTime"`
}

// AttributePair is a free-form key/value annotation on an entity. The name
// side references the owner's attribute vocabulary by convention only.
type AttributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Person is someone who appears in memories.
type Person struct {
	PersonID      string          `json:"personId"`
	OwnerID       string          `json:"ownerId"`
	Name          string          `json:"name"`
	Email         *string         `json:"email,omitempty"`
	Role          *string         `json:"role,omitempty"`
	PhotoURL      *string         `json:"photoUrl,omitempty"`
	DateOfBirth   *time.Time      `json:"dateOfBirth,omitempty"`
	PlaceOfBirth  *string         `json:"placeOfBirth,omitempty"`
	MaritalStatus *string         `json:"maritalStatus,omitempty"`
	SpouseID      *string         `json:"spouseId,omitempty"`
	ChildrenIDs   []string        `json:"childrenIds,omitempty"`
	Attributes    []AttributePair `json:"attributes,omitempty"`
	CreationTime  time.Time       `json:"creationTime"`
	UpdateTime    time.Time       `json:"updateTime"`
}

// Place is a location memories and events can reference.
type Place struct {
	PlaceID      string          `json:"placeId"`
	OwnerID      string          `json:"ownerId"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	Address      *string         `json:"address,omitempty"`
	PlaceType    *string         `json:"placeType,omitempty"`
	Capacity     *int            `json:"capacity,omitempty"`
	Rating       *float64        `json:"rating,omitempty"`
	Attributes   []AttributePair `json:"attributes,omitempty"`
	CreationTime time.Time       `json:"creationTime"`
	UpdateTime   time.Time       `json:"updateTime"`
}

// Event is a dated occasion, optionally held at a place.
type Event struct {
	EventID      string          `json:"eventId"`
	OwnerID      string          `json:"ownerId"`
	Title        string          `json:"title"`
	Date         time.Time       `json:"date"`
	DateType     string          `json:"dateType"`
	PlaceID      *string         `json:"placeId,omitempty"`
	Attributes   []AttributePair `json:"attributes,omitempty"`
	CreationTime time.Time       `json:"creationTime"`
	UpdateTime   time.Time       `json:"updateTime"`
}

// Memory is an uploaded photo or document with its associations.
//
// Invariant: when EventID is set and the referenced event has a place, PlaceID
// equals that event's place. The store enforces this inside the association
// transactions.
type Memory struct {
	MemoryID     string     `json:"memoryId"`
	OwnerID      string     `json:"ownerId"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	MediaType    string     `json:"mediaType"`
	MediaURL     string     `json:"mediaUrl"`
	MediaName    string     `json:"mediaName"`
	Date         time.Time  `json:"date"`
	DateType     string     `json:"dateType"`
	PeopleIDs    []string   `json:"peopleIds,omitempty"`
	PlaceID      *string    `json:"placeId,omitempty"`
	EventID      *string    `json:"eventId,omitempty"`
	CreationTime time.Time  `json:"creationTime"`
	UpdateTime   time.Time  `json:"updateTime"`
}

// Reflection is a free-text note attached to a memory. It has its own
// lifecycle; every write also touches the parent memory's update time.
type Reflection struct {
	ReflectionID string    `json:"reflectionId"`
	OwnerID      string    `json:"ownerId"`
	MemoryID     string    `json:"memoryId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

// Attribute is an owner-scoped vocabulary entry. Names are unique per
// (owner, entityType) ignoring case; entries are append-only.
type Attribute struct {
	AttributeID  string    `json:"attributeId"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	EntityType   string    `json:"entityType"`
	CreationTime time.Time `json:"creationTime"`
}

// Collection groups memories, events, places and people.
type Collection struct {
	CollectionID string    `json:"collectionId"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	Details      *string   `json:"details,omitempty"`
	MemberIDs    []string  `json:"memberIds,omitempty"`
	MemoryIDs    []string  `json:"memoryIds,omitempty"`
	EventIDs     []string  `json:"eventIds,omitempty"`
	PlaceIDs     []string  `json:"placeIds,omitempty"`
	PeopleIDs    []string  `json:"peopleIds,omitempty"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}
