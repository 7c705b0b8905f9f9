// Package memstore is an in-memory store.Store used by unit tests and the
// storetest compliance suite. It mirrors the sqlstore semantics, including
// the association-engine transactions, behind a single mutex.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// Memstore holds everything in maps keyed by owner then entity id.
type Memstore struct {
	mu              sync.RWMutex
	users           map[string]*model.User
	usersByExternal map[string]string
	billingEvents   map[string]struct{}
	persons         map[string]map[string]*model.Person
	places          map[string]map[string]*model.Place
	events          map[string]map[string]*model.Event
	memories        map[string]map[string]*model.Memory
	reflections     map[string]map[string]*model.Reflection
	attributes      map[string]map[string]*model.Attribute
	collections     map[string]map[string]*model.Collection
}

// New returns an empty store.
func New() *Memstore {
	return &Memstore{
		users:           map[string]*model.User{},
		usersByExternal: map[string]string{},
		billingEvents:   map[string]struct{}{},
		persons:         map[string]map[string]*model.Person{},
		places:          map[string]map[string]*model.Place{},
		events:          map[string]map[string]*model.Event{},
		memories:        map[string]map[string]*model.Memory{},
		reflections:     map[string]map[string]*model.Reflection{},
		attributes:      map[string]map[string]*model.Attribute{},
		collections:     map[string]map[string]*model.Collection{},
	}
}

func (s *Memstore) Users() store.Users             { return &musers{s} }
func (s *Memstore) Persons() store.Persons         { return &mpersons{s} }
func (s *Memstore) Places() store.Places           { return &mplaces{s} }
func (s *Memstore) Events() store.Events           { return &mevents{s} }
func (s *Memstore) Memories() store.Memories       { return &mmemories{s} }
func (s *Memstore) Reflections() store.Reflections { return &mreflections{s} }
func (s *Memstore) Attributes() store.Attributes   { return &mattributes{s} }
func (s *Memstore) Collections() store.Collections { return &mcollections{s} }

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, model.ErrNotFound)
}

// bucket returns the owner's entries for reading. It never mutates the
// shared map, so read paths can hold just the read lock; a missing owner
// yields a nil map, which is safe to range, index and delete from.
func bucket[T any](m map[string]map[string]*T, owner string) map[string]*T {
	return m[owner]
}

// ensureBucket creates the owner's bucket on first write. Callers must hold
// the write lock.
func ensureBucket[T any](m map[string]map[string]*T, owner string) map[string]*T {
	b, ok := m[owner]
	if !ok {
		b = map[string]*T{}
		m[owner] = b
	}
	return b
}

func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// --- Users ---

type musers struct{ s *Memstore }

func (u *musers) EnsureByExternalID(_ context.Context, externalID, email string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if id, ok := u.s.usersByExternal[externalID]; ok {
		cp := *u.s.users[id]
		return &cp, nil
	}
	now := time.Now().UTC()
	usr := &model.User{
		UserID:              uuid.New().String(),
		ExternalID:          externalID,
		Email:               email,
		Plan:                model.PlanFree,
		Quota:               100,
		DefaultCollectionID: uuid.New().String(),
		CreationTime:        now,
		UpdateTime:          now,
	}
	u.s.users[usr.UserID] = usr
	u.s.usersByExternal[externalID] = usr.UserID
	ensureBucket(u.s.collections, usr.UserID)[usr.DefaultCollectionID] = &model.Collection{
		CollectionID: usr.DefaultCollectionID,
		OwnerID:      usr.UserID,
		Name:         "All Memories",
		CreationTime: now,
		UpdateTime:   now,
	}
	cp := *usr
	return &cp, nil
}

func (u *musers) Get(_ context.Context, userID string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	usr, ok := u.s.users[userID]
	if !ok {
		return nil, notFound("user")
	}
	cp := *usr
	return &cp, nil
}

func (u *musers) GetByExternalID(_ context.Context, externalID string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	id, ok := u.s.usersByExternal[externalID]
	if !ok {
		return nil, notFound("user")
	}
	cp := *u.s.users[id]
	return &cp, nil
}

func (u *musers) SetPlan(_ context.Context, userID, plan string, quota int) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	usr, ok := u.s.users[userID]
	if !ok {
		return notFound("user")
	}
	usr.Plan = plan
	usr.Quota = quota
	usr.UpdateTime = time.Now().UTC()
	return nil
}

func (u *musers) RecordBillingEvent(_ context.Context, eventID string) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.billingEvents[eventID]; ok {
		return false, nil
	}
	u.s.billingEvents[eventID] = struct{}{}
	return true, nil
}

// --- Persons ---

type mpersons struct{ s *Memstore }

func (p *mpersons) Create(_ context.Context, in *model.Person) (*model.Person, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cp := *in
	cp.PersonID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	cp.ChildrenIDs = dedupe(cp.ChildrenIDs)
	ensureBucket(p.s.persons, cp.OwnerID)[cp.PersonID] = &cp
	out := cp
	return &out, nil
}

func (p *mpersons) Get(_ context.Context, ownerID, personID string) (*model.Person, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	m, ok := bucket(p.s.persons, ownerID)[personID]
	if !ok {
		return nil, notFound("person")
	}
	cp := *m
	return &cp, nil
}

func (p *mpersons) List(_ context.Context, ownerID string) ([]*model.Person, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var out []*model.Person
	for _, m := range bucket(p.s.persons, ownerID) {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *mpersons) Search(ctx context.Context, ownerID, query string) ([]*model.Person, error) {
	all, err := p.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*model.Person
	for _, m := range all {
		if matches(query, m.Name, deref(m.Email), deref(m.Role)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *mpersons) Update(_ context.Context, ownerID, personID string, upd model.PersonUpdate) (*model.Person, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cur, ok := bucket(p.s.persons, ownerID)[personID]
	if !ok {
		return nil, notFound("person")
	}
	upd.Name.Apply(&cur.Name)
	upd.Email.ApplyPtr(&cur.Email)
	upd.Role.ApplyPtr(&cur.Role)
	upd.PhotoURL.ApplyPtr(&cur.PhotoURL)
	upd.DateOfBirth.ApplyPtr(&cur.DateOfBirth)
	upd.PlaceOfBirth.ApplyPtr(&cur.PlaceOfBirth)
	upd.MaritalStatus.ApplyPtr(&cur.MaritalStatus)
	upd.SpouseID.ApplyPtr(&cur.SpouseID)
	if v, ok := upd.ChildrenIDs.Value(); ok {
		cur.ChildrenIDs = dedupe(v)
	} else if upd.ChildrenIDs.IsClear() {
		cur.ChildrenIDs = nil
	}
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	cur.UpdateTime = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (p *mpersons) Delete(_ context.Context, ownerID, personID string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	b := bucket(p.s.persons, ownerID)
	if _, ok := b[personID]; !ok {
		return notFound("person")
	}
	delete(b, personID)

	now := time.Now().UTC()
	for _, mem := range bucket(p.s.memories, ownerID) {
		kept := mem.PeopleIDs[:0]
		for _, id := range mem.PeopleIDs {
			if id != personID {
				kept = append(kept, id)
			}
		}
		mem.PeopleIDs = kept
	}
	for _, other := range b {
		if other.SpouseID != nil && *other.SpouseID == personID {
			other.SpouseID = nil
			other.UpdateTime = now
		}
		kept := other.ChildrenIDs[:0]
		changed := false
		for _, id := range other.ChildrenIDs {
			if id == personID {
				changed = true
				continue
			}
			kept = append(kept, id)
		}
		if changed {
			other.ChildrenIDs = kept
			other.UpdateTime = now
		}
	}
	return nil
}

// --- Places ---

type mplaces struct{ s *Memstore }

func (p *mplaces) Create(_ context.Context, in *model.Place) (*model.Place, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cp := *in
	cp.PlaceID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	ensureBucket(p.s.places, cp.OwnerID)[cp.PlaceID] = &cp
	out := cp
	return &out, nil
}

func (p *mplaces) Get(_ context.Context, ownerID, placeID string) (*model.Place, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	m, ok := bucket(p.s.places, ownerID)[placeID]
	if !ok {
		return nil, notFound("place")
	}
	cp := *m
	return &cp, nil
}

func (p *mplaces) List(_ context.Context, ownerID string) ([]*model.Place, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	var out []*model.Place
	for _, m := range bucket(p.s.places, ownerID) {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *mplaces) Search(ctx context.Context, ownerID, query string) ([]*model.Place, error) {
	all, err := p.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*model.Place
	for _, m := range all {
		if matches(query, m.Name, m.City, deref(m.Address)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *mplaces) Update(_ context.Context, ownerID, placeID string, upd model.PlaceUpdate) (*model.Place, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cur, ok := bucket(p.s.places, ownerID)[placeID]
	if !ok {
		return nil, notFound("place")
	}
	upd.Name.Apply(&cur.Name)
	upd.City.Apply(&cur.City)
	upd.Country.Apply(&cur.Country)
	upd.Address.ApplyPtr(&cur.Address)
	upd.PlaceType.ApplyPtr(&cur.PlaceType)
	upd.Capacity.ApplyPtr(&cur.Capacity)
	upd.Rating.ApplyPtr(&cur.Rating)
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	cur.UpdateTime = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (p *mplaces) Delete(_ context.Context, ownerID, placeID string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	b := bucket(p.s.places, ownerID)
	if _, ok := b[placeID]; !ok {
		return notFound("place")
	}
	delete(b, placeID)

	now := time.Now().UTC()
	for _, ev := range bucket(p.s.events, ownerID) {
		if ev.PlaceID != nil && *ev.PlaceID == placeID {
			ev.PlaceID = nil
			ev.UpdateTime = now
		}
	}
	for _, mem := range bucket(p.s.memories, ownerID) {
		if mem.PlaceID != nil && *mem.PlaceID == placeID {
			mem.PlaceID = nil
			mem.UpdateTime = now
		}
	}
	return nil
}

// --- Events ---

type mevents struct{ s *Memstore }

func (e *mevents) Create(_ context.Context, in *model.Event) (*model.Event, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if in.PlaceID != nil {
		if _, ok := bucket(e.s.places, in.OwnerID)[*in.PlaceID]; !ok {
			return nil, notFound("place")
		}
	}
	cp := *in
	cp.EventID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	ensureBucket(e.s.events, cp.OwnerID)[cp.EventID] = &cp
	out := cp
	return &out, nil
}

func (e *mevents) Get(_ context.Context, ownerID, eventID string) (*model.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	m, ok := bucket(e.s.events, ownerID)[eventID]
	if !ok {
		return nil, notFound("event")
	}
	cp := *m
	return &cp, nil
}

func (e *mevents) List(_ context.Context, ownerID string) ([]*model.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	var out []*model.Event
	for _, m := range bucket(e.s.events, ownerID) {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	return out, nil
}

func (e *mevents) Search(ctx context.Context, ownerID, query string) ([]*model.Event, error) {
	all, err := e.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*model.Event
	for _, m := range all {
		if matches(query, m.Title) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (e *mevents) Update(_ context.Context, ownerID, eventID string, upd model.EventUpdate) (*model.Event, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	stored, ok := bucket(e.s.events, ownerID)[eventID]
	if !ok {
		return nil, notFound("event")
	}
	oldPlace := stored.PlaceID
	cur := *stored

	upd.Title.Apply(&cur.Title)
	upd.Date.Apply(&cur.Date)
	upd.DateType.Apply(&cur.DateType)
	upd.PlaceID.ApplyPtr(&cur.PlaceID)
	if v, ok := upd.Attributes.Value(); ok {
		cur.Attributes = v
	} else if upd.Attributes.IsClear() {
		cur.Attributes = nil
	}
	if cur.PlaceID != nil && !strPtrEq(cur.PlaceID, oldPlace) {
		if _, ok := bucket(e.s.places, ownerID)[*cur.PlaceID]; !ok {
			return nil, notFound("place")
		}
	}
	now := time.Now().UTC()
	cur.UpdateTime = now
	*stored = cur

	if !strPtrEq(cur.PlaceID, oldPlace) {
		e.s.rederive(ownerID, eventID, oldPlace, cur.PlaceID, now)
	}
	cp := cur
	return &cp, nil
}

func (e *mevents) Delete(_ context.Context, ownerID, eventID string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	b := bucket(e.s.events, ownerID)
	ev, ok := b[eventID]
	if !ok {
		return notFound("event")
	}
	delete(b, eventID)

	now := time.Now().UTC()
	e.s.rederive(ownerID, eventID, ev.PlaceID, nil, now)
	for _, mem := range bucket(e.s.memories, ownerID) {
		if mem.EventID != nil && *mem.EventID == eventID {
			mem.EventID = nil
			mem.UpdateTime = now
		}
	}
	return nil
}

// rederive adjusts memory places after an event's place changed (or the event
// was deleted, newPlace nil). Caller holds the lock.
func (s *Memstore) rederive(ownerID, eventID string, oldPlace, newPlace *string, now time.Time) {
	for _, mem := range bucket(s.memories, ownerID) {
		if mem.EventID == nil || *mem.EventID != eventID {
			continue
		}
		target := mem.PlaceID
		switch {
		case newPlace != nil:
			target = newPlace
		case oldPlace != nil && mem.PlaceID != nil && *mem.PlaceID == *oldPlace:
			target = nil
		}
		if !strPtrEq(target, mem.PlaceID) {
			mem.PlaceID = target
			mem.UpdateTime = now
		}
	}
}

// --- Memories ---

type mmemories struct{ s *Memstore }

func (m *mmemories) Create(_ context.Context, in *model.Memory) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *in
	cp.MemoryID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	cp.PeopleIDs = dedupe(cp.PeopleIDs)

	if cp.EventID != nil {
		ev, ok := bucket(m.s.events, cp.OwnerID)[*cp.EventID]
		if !ok {
			return nil, notFound("event")
		}
		if ev.PlaceID != nil {
			cp.PlaceID = ev.PlaceID
		}
	}
	if cp.PlaceID != nil {
		if _, ok := bucket(m.s.places, cp.OwnerID)[*cp.PlaceID]; !ok {
			return nil, notFound("place")
		}
	}
	ensureBucket(m.s.memories, cp.OwnerID)[cp.MemoryID] = &cp
	out := cp
	out.PeopleIDs = append([]string(nil), cp.PeopleIDs...)
	return &out, nil
}

func (m *mmemories) Get(_ context.Context, ownerID, memoryID string) (*model.Memory, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	mem, ok := bucket(m.s.memories, ownerID)[memoryID]
	if !ok {
		return nil, notFound("memory")
	}
	cp := *mem
	cp.PeopleIDs = append([]string(nil), mem.PeopleIDs...)
	sort.Strings(cp.PeopleIDs)
	return &cp, nil
}

func (m *mmemories) List(_ context.Context, ownerID string) ([]*model.Memory, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []*model.Memory
	for _, mem := range bucket(m.s.memories, ownerID) {
		cp := *mem
		cp.PeopleIDs = append([]string(nil), mem.PeopleIDs...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	return out, nil
}

func (m *mmemories) Search(ctx context.Context, ownerID, query string) ([]*model.Memory, error) {
	all, err := m.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var out []*model.Memory
	for _, mem := range all {
		if matches(query, mem.Title, deref(mem.Description)) {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *mmemories) Delete(_ context.Context, ownerID, memoryID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	b := bucket(m.s.memories, ownerID)
	if _, ok := b[memoryID]; !ok {
		return notFound("memory")
	}
	delete(b, memoryID)
	for id, r := range bucket(m.s.reflections, ownerID) {
		if r.MemoryID == memoryID {
			delete(bucket(m.s.reflections, ownerID), id)
		}
	}
	return nil
}

func (m *mmemories) SetPeople(ctx context.Context, ownerID, memoryID string, personIDs []string) (*model.Memory, error) {
	m.s.mu.Lock()
	mem, ok := bucket(m.s.memories, ownerID)[memoryID]
	if !ok {
		m.s.mu.Unlock()
		return nil, notFound("memory")
	}
	ids := dedupe(personIDs)
	for _, pid := range ids {
		if _, ok := bucket(m.s.persons, ownerID)[pid]; !ok {
			m.s.mu.Unlock()
			return nil, notFound("person")
		}
	}
	mem.PeopleIDs = ids
	mem.UpdateTime = time.Now().UTC()
	m.s.mu.Unlock()
	return m.Get(ctx, ownerID, memoryID)
}

func (m *mmemories) SetEvent(ctx context.Context, ownerID, memoryID string, eventID *string) (*model.Memory, error) {
	m.s.mu.Lock()
	mem, ok := bucket(m.s.memories, ownerID)[memoryID]
	if !ok {
		m.s.mu.Unlock()
		return nil, notFound("memory")
	}

	var oldDerived *string
	if mem.EventID != nil {
		if ev, ok := bucket(m.s.events, ownerID)[*mem.EventID]; ok {
			oldDerived = ev.PlaceID
		}
	}
	newPlace := mem.PlaceID
	if oldDerived != nil && mem.PlaceID != nil && *mem.PlaceID == *oldDerived {
		newPlace = nil
	}
	if eventID != nil {
		ev, ok := bucket(m.s.events, ownerID)[*eventID]
		if !ok {
			m.s.mu.Unlock()
			return nil, notFound("event")
		}
		if ev.PlaceID != nil {
			newPlace = ev.PlaceID
		}
	}
	mem.EventID = eventID
	mem.PlaceID = newPlace
	mem.UpdateTime = time.Now().UTC()
	m.s.mu.Unlock()
	return m.Get(ctx, ownerID, memoryID)
}

func (m *mmemories) SetPlace(ctx context.Context, ownerID, memoryID string, placeID *string) (*model.Memory, error) {
	m.s.mu.Lock()
	mem, ok := bucket(m.s.memories, ownerID)[memoryID]
	if !ok {
		m.s.mu.Unlock()
		return nil, notFound("memory")
	}
	if mem.EventID != nil {
		if ev, ok := bucket(m.s.events, ownerID)[*mem.EventID]; ok && ev.PlaceID != nil && !strPtrEq(placeID, ev.PlaceID) {
			m.s.mu.Unlock()
			return nil, fmt.Errorf("place is locked by the associated event; change or remove the event first: %w", model.ErrConflict)
		}
	}
	if placeID != nil {
		if _, ok := bucket(m.s.places, ownerID)[*placeID]; !ok {
			m.s.mu.Unlock()
			return nil, notFound("place")
		}
	}
	mem.PlaceID = placeID
	mem.UpdateTime = time.Now().UTC()
	m.s.mu.Unlock()
	return m.Get(ctx, ownerID, memoryID)
}

func (m *mmemories) UpdateDetails(ctx context.Context, ownerID, memoryID string, upd model.MemoryUpdate) (*model.Memory, error) {
	m.s.mu.Lock()
	mem, ok := bucket(m.s.memories, ownerID)[memoryID]
	if !ok {
		m.s.mu.Unlock()
		return nil, notFound("memory")
	}
	upd.Title.Apply(&mem.Title)
	upd.Description.ApplyPtr(&mem.Description)
	upd.Date.Apply(&mem.Date)
	upd.DateType.Apply(&mem.DateType)
	upd.MediaName.Apply(&mem.MediaName)
	mem.UpdateTime = time.Now().UTC()
	m.s.mu.Unlock()
	return m.Get(ctx, ownerID, memoryID)
}

// --- Reflections ---

type mreflections struct{ s *Memstore }

func (r *mreflections) Create(_ context.Context, in *model.Reflection) (*model.Reflection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mem, ok := bucket(r.s.memories, in.OwnerID)[in.MemoryID]
	if !ok {
		return nil, notFound("memory")
	}
	cp := *in
	cp.ReflectionID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	ensureBucket(r.s.reflections, cp.OwnerID)[cp.ReflectionID] = &cp
	mem.UpdateTime = now
	out := cp
	return &out, nil
}

func (r *mreflections) Get(_ context.Context, ownerID, memoryID, reflectionID string) (*model.Reflection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	refl, ok := bucket(r.s.reflections, ownerID)[reflectionID]
	if !ok || refl.MemoryID != memoryID {
		return nil, notFound("reflection")
	}
	cp := *refl
	return &cp, nil
}

func (r *mreflections) ListByMemory(_ context.Context, ownerID, memoryID string) ([]*model.Reflection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Reflection
	for _, refl := range bucket(r.s.reflections, ownerID) {
		if refl.MemoryID == memoryID {
			cp := *refl
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	return out, nil
}

func (r *mreflections) Update(_ context.Context, ownerID, memoryID, reflectionID string, upd model.ReflectionUpdate) (*model.Reflection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	refl, ok := bucket(r.s.reflections, ownerID)[reflectionID]
	if !ok || refl.MemoryID != memoryID {
		return nil, notFound("reflection")
	}
	upd.Title.Apply(&refl.Title)
	upd.Content.Apply(&refl.Content)
	now := time.Now().UTC()
	refl.UpdateTime = now
	if mem, ok := bucket(r.s.memories, ownerID)[memoryID]; ok {
		mem.UpdateTime = now
	}
	cp := *refl
	return &cp, nil
}

func (r *mreflections) Delete(_ context.Context, ownerID, memoryID, reflectionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := bucket(r.s.reflections, ownerID)
	refl, ok := b[reflectionID]
	if !ok || refl.MemoryID != memoryID {
		return notFound("reflection")
	}
	delete(b, reflectionID)
	if mem, ok := bucket(r.s.memories, ownerID)[memoryID]; ok {
		mem.UpdateTime = time.Now().UTC()
	}
	return nil
}

// --- Attributes ---

type mattributes struct{ s *Memstore }

func (a *mattributes) Create(_ context.Context, in *model.Attribute) (*model.Attribute, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	name := strings.TrimSpace(in.Name)
	entityType := in.EntityType
	if entityType == "" {
		entityType = model.EntityAll
	}
	for _, existing := range bucket(a.s.attributes, in.OwnerID) {
		if existing.EntityType == entityType && strings.EqualFold(existing.Name, name) {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *in
	cp.AttributeID = uuid.New().String()
	cp.Name = name
	cp.EntityType = entityType
	cp.CreationTime = time.Now().UTC()
	ensureBucket(a.s.attributes, cp.OwnerID)[cp.AttributeID] = &cp
	out := cp
	return &out, nil
}

func (a *mattributes) ListByEntityType(_ context.Context, ownerID, entityType string) ([]*model.Attribute, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return a.collect(ownerID, entityType, ""), nil
}

func (a *mattributes) Search(_ context.Context, ownerID, entityType, query string) ([]*model.Attribute, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return a.collect(ownerID, entityType, query), nil
}

func (a *mattributes) collect(ownerID, entityType, query string) []*model.Attribute {
	var out []*model.Attribute
	for _, attr := range bucket(a.s.attributes, ownerID) {
		if attr.EntityType != entityType && attr.EntityType != model.EntityAll {
			continue
		}
		if query != "" && !matches(query, attr.Name) {
			continue
		}
		cp := *attr
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := deref(out[i].Category), deref(out[j].Category)
		if ci != cj {
			return ci < cj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// --- Collections ---

type mcollections struct{ s *Memstore }

func (c *mcollections) Create(_ context.Context, in *model.Collection) (*model.Collection, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cp := *in
	cp.CollectionID = uuid.New().String()
	now := time.Now().UTC()
	cp.CreationTime = now
	cp.UpdateTime = now
	ensureBucket(c.s.collections, cp.OwnerID)[cp.CollectionID] = &cp
	out := cp
	return &out, nil
}

func (c *mcollections) Get(_ context.Context, ownerID, collectionID string) (*model.Collection, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	m, ok := bucket(c.s.collections, ownerID)[collectionID]
	if !ok {
		return nil, notFound("collection")
	}
	cp := *m
	return &cp, nil
}

func (c *mcollections) List(_ context.Context, ownerID string) ([]*model.Collection, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	var out []*model.Collection
	for _, m := range bucket(c.s.collections, ownerID) {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *mcollections) Update(_ context.Context, ownerID, collectionID string, upd model.CollectionUpdate) (*model.Collection, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cur, ok := bucket(c.s.collections, ownerID)[collectionID]
	if !ok {
		return nil, notFound("collection")
	}
	upd.Name.Apply(&cur.Name)
	upd.Details.ApplyPtr(&cur.Details)
	applyStrings(upd.MemberIDs, &cur.MemberIDs)
	applyStrings(upd.MemoryIDs, &cur.MemoryIDs)
	applyStrings(upd.EventIDs, &cur.EventIDs)
	applyStrings(upd.PlaceIDs, &cur.PlaceIDs)
	applyStrings(upd.PeopleIDs, &cur.PeopleIDs)
	cur.UpdateTime = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (c *mcollections) Delete(_ context.Context, ownerID, collectionID string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	b := bucket(c.s.collections, ownerID)
	if _, ok := b[collectionID]; !ok {
		return notFound("collection")
	}
	delete(b, collectionID)
	return nil
}

func applyStrings(f model.Field[[]string], dst *[]string) {
	if v, ok := f.Value(); ok {
		*dst = dedupe(v)
	} else if f.IsClear() {
		*dst = nil
	}
}
