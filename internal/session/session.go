package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RoleParent = "Parent"
	RoleDriver = "Driver"
)

// User is the cached snapshot of the logged-in identity. It is replaced
// wholesale on every profile mutation, never patched field by field.
type User struct {
	UID              string  `json:"uid"`
	ID               string  `json:"id,omitempty"`
	Email            string  `json:"email"`
	EmailAddress     string  `json:"emailAddress,omitempty"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Role             string  `json:"role"`
	LocationSet      bool    `json:"locationSet"`
	PfpSet           bool    `json:"pfpSet"`
	DriverProfileSet bool    `json:"driverProfileSet,omitempty"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	LocationAddress  string  `json:"locationAddress,omitempty"`
	Image64          string  `json:"image64,omitempty"`
}

// Normalize guarantees uid and email are populated, falling back to the
// legacy id and emailAddress field names when the primaries are absent.
func Normalize(u User) User {
	if u.UID == "" {
		u.UID = u.ID
	}
	if u.Email == "" {
		u.Email = u.EmailAddress
	}
	return u
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Store caches session snapshots in Redis. The payload under each
// userData key is a JSON one-element array; older readers index
// element 0 directly, so the list-of-one wire shape must not change.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

// Get returns the cached snapshot for uid, or nil when the entry is
// missing, empty, or unparsable. It never surfaces an error: a broken
// payload means "not logged in" and is logged for diagnosis.
func (s *Store) Get(ctx context.Context, uid string) *User {
	if s.redis == nil || uid == "" {
		return nil
	}

	raw, err := s.redis.Get(ctx, userDataKey(uid)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("session read failed for %s: %v", uid, err)
		}
		return nil
	}
	if raw == "" {
		return nil
	}

	var list []User
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		u := Normalize(list[0])
		return &u
	}

	// Tolerate a bare object written before the list-of-one convention.
	var single User
	if err := json.Unmarshal([]byte(raw), &single); err != nil {
		log.Printf("session parse failed for %s: %v", uid, err)
		return nil
	}
	u := Normalize(single)
	if u.UID == "" && u.Email == "" {
		return nil
	}
	return &u
}

// Save normalizes and overwrites the snapshot for uid. A nil user
// clears the entry (logout semantics).
func (s *Store) Save(ctx context.Context, uid string, u *User) error {
	if s.redis == nil {
		return nil
	}
	if u == nil {
		return s.Clear(ctx, uid)
	}

	normalized := Normalize(*u)
	payload, err := json.Marshal([]User{normalized})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, userDataKey(uid), payload, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, uid string) error {
	if s.redis == nil || uid == "" {
		return nil
	}
	return s.redis.Del(ctx, userDataKey(uid), locationKey(uid)).Err()
}

// SaveLocation stores the map location last picked by the user.
func (s *Store) SaveLocation(ctx context.Context, uid string, loc Location) error {
	if s.redis == nil || uid == "" {
		return nil
	}
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, locationKey(uid), payload, s.ttl).Err()
}

// Location returns the saved pick, or nil when absent or unparsable.
func (s *Store) Location(ctx context.Context, uid string) *Location {
	if s.redis == nil || uid == "" {
		return nil
	}
	raw, err := s.redis.Get(ctx, locationKey(uid)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("location read failed for %s: %v", uid, err)
		}
		return nil
	}
	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		log.Printf("location parse failed for %s: %v", uid, err)
		return nil
	}
	return &loc
}

func userDataKey(uid string) string {
	return "userData:" + uid
}

func locationKey(uid string) string {
	return "selectedLocation:" + uid
}
