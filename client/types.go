package client

import "time"

// Wire types for the REST API. Field names and JSON tags follow the server's
// response shapes.

// AttributePair is a free-form key/value annotation on an entity. The name
// side conventionally references an Attribute from the owner's vocabulary.
type AttributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

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

// Memory is an uploaded photo or document with its associations. PlaceID
// tracks the attached event's place while EventID is set; the server rejects
// direct place changes that would contradict it.
type Memory struct {
	MemoryID     string    `json:"memoryId"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	MediaType    string    `json:"mediaType"`
	MediaURL     string    `json:"mediaUrl"`
	MediaName    string    `json:"mediaName"`
	Date         time.Time `json:"date"`
	DateType     string    `json:"dateType"`
	PeopleIDs    []string  `json:"peopleIds,omitempty"`
	PlaceID      *string   `json:"placeId,omitempty"`
	EventID      *string   `json:"eventId,omitempty"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

type Reflection struct {
	ReflectionID string    `json:"reflectionId"`
	OwnerID      string    `json:"ownerId"`
	MemoryID     string    `json:"memoryId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreationTime time.Time `json:"creationTime"`
	UpdateTime   time.Time `json:"updateTime"`
}

type Attribute struct {
	AttributeID  string    `json:"attributeId"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	EntityType   string    `json:"entityType"`
	CreationTime time.Time `json:"creationTime"`
}

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

// MediaUpload is the result of uploading a file; MediaURL is the storage key
// to reference from a memory.
type MediaUpload struct {
	MediaURL  string `json:"mediaUrl"`
	MediaName string `json:"mediaName"`
}

// UpdateFields builds a PATCH payload with tri-state semantics: Set writes a
// value, Clear writes an explicit null, untouched keys are omitted and left
// unchanged by the server.
type UpdateFields map[string]any

// Fields starts an empty update payload.
func Fields() UpdateFields { return UpdateFields{} }

func (u UpdateFields) Set(key string, value any) UpdateFields {
	u[key] = value
	return u
}

func (u UpdateFields) Clear(key string) UpdateFields {
	u[key] = nil
	return u
}
