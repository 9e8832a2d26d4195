package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/EthanLeRoux/kryvervoer/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewStore(client, time.Hour)
}

func profileRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "uid", "email", "first_name", "last_name", "role",
		"location_set", "pfp_set", "driver_profile_set",
		"latitude", "longitude", "location_address", "image64",
		"created_at", "updated_at",
	})
}

func TestProfile(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, uid, email, first_name, last_name, role`).
		WithArgs("uid-1").
		WillReturnRows(profileRows().AddRow(
			"id-1", "uid-1", "p@b.c", "Thandi", "Nkosi", "Parent",
			false, false, false, 0.0, 0.0, "", "", time.Now(), time.Now()))

	svc := NewService(mock, newTestSessions(t))
	p, err := svc.Profile(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.UID != "uid-1" || p.Role != "Parent" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestUpdateLocation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	sessions := newTestSessions(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("uid-1", -33.92, 18.42, "Cape Town").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`SELECT id, uid, email, first_name, last_name, role`).
		WithArgs("uid-1").
		WillReturnRows(profileRows().AddRow(
			"id-1", "uid-1", "p@b.c", "Thandi", "Nkosi", "Parent",
			true, false, false, -33.92, 18.42, "Cape Town", "", time.Now(), time.Now()))

	svc := NewService(mock, sessions)
	p, err := svc.UpdateLocation(context.Background(), "uid-1", LocationUpdate{
		Latitude: -33.92, Longitude: 18.42, LocationAddress: "Cape Town",
	})
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if !p.LocationSet {
		t.Fatalf("expected locationSet true")
	}

	// Session snapshot replaced wholesale, selected location saved.
	snap := sessions.Get(context.Background(), "uid-1")
	if snap == nil || !snap.LocationSet || snap.Latitude != -33.92 {
		t.Fatalf("expected refreshed snapshot, got %+v", snap)
	}
	loc := sessions.Location(context.Background(), "uid-1")
	if loc == nil || loc.Lat != -33.92 || loc.Lng != 18.42 {
		t.Fatalf("expected saved location, got %+v", loc)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateLocationOutOfRange(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock, newTestSessions(t))
	_, err = svc.UpdateLocation(context.Background(), "uid-1", LocationUpdate{Latitude: 91})
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected coordinate error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db calls: %v", err)
	}
}

func TestUpdatePicture(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	sessions := newTestSessions(t)
	image := "data:image/png;base64,iVBORw0KGgo="

	mock.ExpectExec(`UPDATE users`).
		WithArgs("uid-1", image).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`SELECT id, uid, email, first_name, last_name, role`).
		WithArgs("uid-1").
		WillReturnRows(profileRows().AddRow(
			"id-1", "uid-1", "p@b.c", "Thandi", "Nkosi", "Parent",
			false, true, false, 0.0, 0.0, "", image, time.Now(), time.Now()))

	svc := NewService(mock, sessions)
	p, err := svc.UpdatePicture(context.Background(), "uid-1", PictureUpdate{Image64: image})
	if err != nil {
		t.Fatalf("update picture: %v", err)
	}
	if !p.PfpSet {
		t.Fatalf("expected pfpSet true")
	}

	snap := sessions.Get(context.Background(), "uid-1")
	if snap == nil || !snap.PfpSet || snap.Image64 != image {
		t.Fatalf("expected refreshed snapshot, got %+v", snap)
	}
}

func TestUpdatePictureRejectsBadInput(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock, newTestSessions(t))

	_, err = svc.UpdatePicture(context.Background(), "uid-1", PictureUpdate{Image64: "plain text"})
	if !errors.Is(err, ErrNotDataURL) {
		t.Fatalf("expected data-url error, got %v", err)
	}

	huge := "data:image/png;base64," + strings.Repeat("A", maxImageBytes)
	_, err = svc.UpdatePicture(context.Background(), "uid-1", PictureUpdate{Image64: huge})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected too-large error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db calls: %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	sessions := newTestSessions(t)
	ctx := context.Background()
	_ = sessions.Save(ctx, "uid-1", &session.User{UID: "uid-1", Email: "p@b.c"})

	mock.ExpectExec(`DELETE FROM drivers`).WithArgs("uid-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM users`).WithArgs("uid-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, sessions)
	if err := svc.DeleteAccount(ctx, "uid-1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if sessions.Get(ctx, "uid-1") != nil {
		t.Fatalf("expected session cleared")
	}
}

func TestDeleteAccountMissing(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM drivers`).WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM users`).WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	svc := NewService(mock, newTestSessions(t))
	if err := svc.DeleteAccount(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
