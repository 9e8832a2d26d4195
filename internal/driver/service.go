package driver

import (
	"context"

	"github.com/EthanLeRoux/kryvervoer/internal/db"
	"github.com/EthanLeRoux/kryvervoer/internal/session"
	"github.com/EthanLeRoux/kryvervoer/internal/shared/geo"
)

type Service struct {
	db       db.Querier
	sessions *session.Store
}

func NewService(querier db.Querier, sessions *session.Store) *Service {
	return &Service{db: querier, sessions: sessions}
}

// SaveProfile upserts the driver's listing, flags the owning user as
// driver-profile-complete and replaces the session snapshot wholesale.
func (s *Service) SaveProfile(ctx context.Context, uid string, rec Record) (Record, error) {
	rec.UID = uid
	row := s.db.QueryRow(ctx, `
		INSERT INTO drivers (uid, vehicle_type, vehicle_capacity, available_seats,
		                     supported_schools, price_per_month, race, languages)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (uid) DO UPDATE SET
			vehicle_type=EXCLUDED.vehicle_type,
			vehicle_capacity=EXCLUDED.vehicle_capacity,
			available_seats=EXCLUDED.available_seats,
			supported_schools=EXCLUDED.supported_schools,
			price_per_month=EXCLUDED.price_per_month,
			race=EXCLUDED.race,
			languages=EXCLUDED.languages,
			updated_at=now()
		RETURNING created_at, updated_at
	`, rec.UID, rec.VehicleType, rec.VehicleCapacity, rec.AvailableSeats,
		rec.SupportedSchools, rec.PricePerMonth, rec.Race, rec.Languages)
	if err := row.Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE users SET driver_profile_set=true, updated_at=now() WHERE uid=$1
	`, uid); err != nil {
		return Record{}, err
	}

	if snap := s.sessions.Get(ctx, uid); snap != nil {
		updated := *snap
		updated.DriverProfileSet = true
		if err := s.sessions.Save(ctx, uid, &updated); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// Directory fetches the driver and user sets independently, joins them
// on uid and returns the filtered display points. A failure in either
// fetch aborts the merge; the caller sees an error and an empty list.
// When the viewer has a saved location, points carry their distance
// from it.
func (s *Service) Directory(ctx context.Context, viewerUID string, criteria Criteria) ([]DisplayPoint, error) {
	drivers, err := s.fetchDrivers(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.fetchUsers(ctx)
	if err != nil {
		return nil, err
	}

	var viewer *session.Location
	if viewerUID != "" {
		viewer = s.sessions.Location(ctx, viewerUID)
	}

	points := merge(drivers, users, viewer)
	return criteria.Apply(points), nil
}

// merge joins each driver to its user record by uid (first match wins
// on duplicates, a data-integrity assumption of the users table) and
// drops drivers with no user or with an unset location.
func merge(drivers []Record, users []userRow, viewer *session.Location) []DisplayPoint {
	byUID := make(map[string]userRow, len(users))
	for _, u := range users {
		if _, ok := byUID[u.UID]; !ok {
			byUID[u.UID] = u
		}
	}

	points := make([]DisplayPoint, 0, len(drivers))
	for _, d := range drivers {
		u, ok := byUID[d.UID]
		if !ok || !u.LocationSet {
			continue
		}
		if u.Latitude == 0 && u.Longitude == 0 {
			continue
		}

		p := DisplayPoint{
			ID:             d.UID,
			Lat:            u.Latitude,
			Lng:            u.Longitude,
			Name:           u.FirstName + " " + u.LastName,
			ProfilePic:     u.Image64,
			Vehicle:        d.VehicleType,
			Schools:        d.SupportedSchools,
			MaxPassengers:  d.VehicleCapacity,
			AvailableSeats: d.AvailableSeats,
			Price:          d.PricePerMonth,
			Race:           d.Race,
			Languages:      d.Languages,
		}
		if p.Schools == nil {
			p.Schools = []string{}
		}
		if p.Languages == nil {
			p.Languages = []string{}
		}
		if viewer != nil {
			p.DistanceKm = geo.HaversineKm(viewer.Lat, viewer.Lng, u.Latitude, u.Longitude)
		}
		points = append(points, p)
	}
	return points
}

func (s *Service) fetchDrivers(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT uid, vehicle_type, vehicle_capacity, available_seats,
		       supported_schools, price_per_month, race, languages
		FROM drivers
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Record
	for rows.Next() {
		var d Record
		if err := rows.Scan(&d.UID, &d.VehicleType, &d.VehicleCapacity, &d.AvailableSeats,
			&d.SupportedSchools, &d.PricePerMonth, &d.Race, &d.Languages); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (s *Service) fetchUsers(ctx context.Context) ([]userRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT uid, first_name, last_name, COALESCE(image64,''),
		       COALESCE(latitude,0), COALESCE(longitude,0), location_set
		FROM users
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []userRow
	for rows.Next() {
		var u userRow
		if err := rows.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Image64,
			&u.Latitude, &u.Longitude, &u.LocationSet); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
