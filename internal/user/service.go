package user

import (
	"context"
	"errors"
	"strings"

	"github.com/EthanLeRoux/kryvervoer/internal/db"
	"github.com/EthanLeRoux/kryvervoer/internal/session"
)

// 5 MiB cap on inline profile pictures, matching the upload limit the
// web client enforced before converting files to data URLs.
const maxImageBytes = 5 * 1024 * 1024

var (
	ErrInvalidCoordinates = errors.New("latitude/longitude out of range")
	ErrImageTooLarge      = errors.New("image must be smaller than 5MB")
	ErrNotDataURL         = errors.New("image must be a data URL")
	ErrNotFound           = errors.New("user not found")
)

type Service struct {
	db       db.Querier
	sessions *session.Store
}

func NewService(querier db.Querier, sessions *session.Store) *Service {
	return &Service{db: querier, sessions: sessions}
}

func (s *Service) Profile(ctx context.Context, uid string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, uid, email, first_name, last_name, role,
		       location_set, pfp_set, driver_profile_set,
		       COALESCE(latitude,0), COALESCE(longitude,0),
		       COALESCE(location_address,''), COALESCE(image64,''),
		       created_at, updated_at
		FROM users WHERE uid = $1
	`, uid)

	var p Profile
	err := row.Scan(&p.ID, &p.UID, &p.Email, &p.FirstName, &p.LastName, &p.Role,
		&p.LocationSet, &p.PfpSet, &p.DriverProfileSet,
		&p.Latitude, &p.Longitude, &p.LocationAddress, &p.Image64,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateLocation persists the home location, marks the profile as
// location-complete and replaces the session snapshot wholesale.
func (s *Service) UpdateLocation(ctx context.Context, uid string, upd LocationUpdate) (Profile, error) {
	if upd.Latitude < -90 || upd.Latitude > 90 || upd.Longitude < -180 || upd.Longitude > 180 {
		return Profile{}, ErrInvalidCoordinates
	}

	_, err := s.db.Exec(ctx, `
		UPDATE users
		SET latitude=$2, longitude=$3, location_address=$4, location_set=true, updated_at=now()
		WHERE uid=$1
	`, uid, upd.Latitude, upd.Longitude, upd.LocationAddress)
	if err != nil {
		return Profile{}, err
	}

	p, err := s.Profile(ctx, uid)
	if err != nil {
		return Profile{}, err
	}

	if err := s.sessions.SaveLocation(ctx, uid, session.Location{Lat: upd.Latitude, Lng: upd.Longitude}); err != nil {
		return Profile{}, err
	}
	if err := s.refreshSession(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdatePicture stores the picture inline as a base64 data URL.
func (s *Service) UpdatePicture(ctx context.Context, uid string, upd PictureUpdate) (Profile, error) {
	if !strings.HasPrefix(upd.Image64, "data:image/") {
		return Profile{}, ErrNotDataURL
	}
	if len(upd.Image64) > maxImageBytes {
		return Profile{}, ErrImageTooLarge
	}

	_, err := s.db.Exec(ctx, `
		UPDATE users
		SET image64=$2, pfp_set=true, updated_at=now()
		WHERE uid=$1
	`, uid, upd.Image64)
	if err != nil {
		return Profile{}, err
	}

	p, err := s.Profile(ctx, uid)
	if err != nil {
		return Profile{}, err
	}
	if err := s.refreshSession(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// DeleteAccount removes the user, their driver listing and the cached
// session.
func (s *Service) DeleteAccount(ctx context.Context, uid string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM drivers WHERE uid=$1`, uid); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE uid=$1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return s.sessions.Clear(ctx, uid)
}

// Session exposes the cached snapshot; nil means not logged in.
func (s *Service) Session(ctx context.Context, uid string) *session.User {
	return s.sessions.Get(ctx, uid)
}

func (s *Service) refreshSession(ctx context.Context, p Profile) error {
	return s.sessions.Save(ctx, p.UID, &session.User{
		UID:              p.UID,
		ID:               p.ID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Role:             p.Role,
		LocationSet:      p.LocationSet,
		PfpSet:           p.PfpSet,
		DriverProfileSet: p.DriverProfileSet,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		LocationAddress:  p.LocationAddress,
		Image64:          p.Image64,
	})
}
