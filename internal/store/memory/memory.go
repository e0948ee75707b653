// Package memory implementa los repositorios de core sobre estructuras
// en memoria. Pensado para desarrollo y testing: mismas semánticas que
// el adapter pg (insert-if-absent, duplicados permitidos en códigos),
// sin base de datos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

type checkKey struct {
	UserID     int64
	ProviderID string
	DateCheck  time.Time
}

type optionKey struct {
	UserID   int64
	Category string
	Name     string
}

type Store struct {
	mu sync.RWMutex

	users        map[int64]struct{}
	userNames    map[int64]string
	groups       map[int64]string
	userGroups   map[int64][]int64
	codes        []core.AccessCode
	checks       map[checkKey]struct{}
	options      map[optionKey][]byte
	reservations map[int64]core.Reservation
	nextResID    int64
	events       []core.AnalyticsEvent
	nextEventID  int64
}

func New() *Store {
	return &Store{
		users:        make(map[int64]struct{}),
		userNames:    make(map[int64]string),
		groups:       make(map[int64]string),
		userGroups:   make(map[int64][]int64),
		checks:       make(map[checkKey]struct{}),
		options:      make(map[optionKey][]byte),
		reservations: make(map[int64]core.Reservation),
	}
}

// AddUser registra un usuario en la "tabla" de usuarios (fixture).
func (s *Store) AddUser(userID int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
	s.userNames[userID] = name
}

// AddGroup registra un grupo (fixture).
func (s *Store) AddGroup(groupID int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupID] = name
}

// AssignGroup agrega al usuario a un grupo (fixture).
func (s *Store) AssignGroup(userID, groupID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userGroups[userID] = append(s.userGroups[userID], groupID)
}

// ---------- DirectoryRepository ----------

func (s *Store) GetUserGroups(ctx context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.userGroups[userID]...), nil
}

func (s *Store) GetGroupNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if name, ok := s.groups[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (s *Store) GetUserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if name, ok := s.userNames[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// ---------- AccessRepository ----------

func (s *Store) AddCode(ctx context.Context, userID int64, providerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, core.AccessCode{UserID: userID, ProviderID: providerID, Code: code})
	return nil
}

func (s *Store) RemoveCode(ctx context.Context, userID int64, providerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.codes[:0]
	for _, c := range s.codes {
		if c.UserID == userID && c.ProviderID == providerID && c.Code == code {
			continue
		}
		out = append(out, c)
	}
	s.codes = out
	return nil
}

func (s *Store) DeleteCodes(ctx context.Context, providerID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.codes[:0]
	for _, c := range s.codes {
		if c.UserID == userID && c.ProviderID == providerID {
			continue
		}
		out = append(out, c)
	}
	s.codes = out
	return nil
}

func (s *Store) GetCodes(ctx context.Context, userID int64, filter core.CodeFilter) ([]core.AccessCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.AccessCode
	for _, c := range s.codes {
		if c.UserID != userID {
			continue
		}
		if filter.ProviderID != "" && c.ProviderID != filter.ProviderID {
			continue
		}
		if len(filter.Codes) > 0 && !contains(filter.Codes, c.Code) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.codes[:0]
	for _, c := range s.codes {
		if c.UserID == userID {
			continue
		}
		out = append(out, c)
	}
	s.codes = out
	return nil
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// ---------- CheckRepository ----------

func (s *Store) GetChecks(ctx context.Context, providerID string, userID int64) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []time.Time
	for k := range s.checks {
		if k.UserID == userID && k.ProviderID == providerID {
			out = append(out, k.DateCheck)
		}
	}
	return out, nil
}

func (s *Store) ScheduleCheck(ctx context.Context, providerID string, userID int64, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		// mismo comportamiento que el INSERT ... SELECT: sin usuario, no hay fila
		return nil
	}
	s.checks[checkKey{UserID: userID, ProviderID: providerID, DateCheck: when.UTC()}] = struct{}{}
	return nil
}

func (s *Store) ScheduleForProvider(ctx context.Context, providerID string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{})
	for _, c := range s.codes {
		if c.ProviderID != providerID || c.UserID <= 0 {
			continue
		}
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		s.checks[checkKey{UserID: c.UserID, ProviderID: providerID, DateCheck: when.UTC()}] = struct{}{}
	}
	return nil
}

func (s *Store) ClearProcessed(ctx context.Context, providerID string, userID int64, upto time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.checks {
		if k.UserID == userID && k.ProviderID == providerID && !k.DateCheck.After(upto) {
			delete(s.checks, k)
		}
	}
	return nil
}

func (s *Store) DeleteChecksForUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.checks {
		if k.UserID == userID {
			delete(s.checks, k)
		}
	}
	return nil
}

// ---------- OptionRepository ----------

func (s *Store) GetOption(ctx context.Context, userID int64, category, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.options[optionKey{UserID: userID, Category: category, Name: name}]
	if !ok {
		return nil, core.ErrNotFound
	}
	return v, nil
}

func (s *Store) SetOption(ctx context.Context, userID int64, category, name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[optionKey{UserID: userID, Category: category, Name: name}] = value
	return nil
}

// ---------- ReservationRepository ----------

func (s *Store) AddReservation(ctx context.Context, r *core.Reservation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResID++
	stored := *r
	stored.ID = s.nextResID
	s.reservations[stored.ID] = stored
	return stored.ID, nil
}

func (s *Store) UpdateReservation(ctx context.Context, id int64, r *core.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return core.ErrNotFound
	}
	stored := *r
	stored.ID = id
	s.reservations[id] = stored
	return nil
}

func (s *Store) DeleteReservation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *Store) GetReservationByID(ctx context.Context, id int64) (*core.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &r, nil
}

// ---------- AnalyticsRepository ----------

func (s *Store) AddEvent(ctx context.Context, e *core.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	e.ID = s.nextEventID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.events = append(s.events, *e)
	return nil
}

func (s *Store) DeleteByDate(ctx context.Context, upto time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	out := s.events[:0]
	for _, e := range s.events {
		if !e.CreatedAt.After(upto) {
			deleted++
			continue
		}
		out = append(out, e)
	}
	s.events = out
	return deleted, nil
}

func (s *Store) DeleteByCodeAndDate(ctx context.Context, code string, upto time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	out := s.events[:0]
	for _, e := range s.events {
		if e.Code == code && !e.CreatedAt.After(upto) {
			deleted++
			continue
		}
		out = append(out, e)
	}
	s.events = out
	return deleted, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var (
	_ core.AccessRepository      = (*Store)(nil)
	_ core.DirectoryRepository   = (*Store)(nil)
	_ core.CheckRepository       = (*Store)(nil)
	_ core.OptionRepository      = (*Store)(nil)
	_ core.ReservationRepository = (*Store)(nil)
	_ core.AnalyticsRepository   = (*Store)(nil)
)
