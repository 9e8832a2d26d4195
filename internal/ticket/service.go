package ticket

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/EthanLeRoux/kryvervoer/internal/db"
	"github.com/EthanLeRoux/kryvervoer/internal/mq"
	"github.com/EthanLeRoux/kryvervoer/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSessionExpired = errors.New("user data not found, please log in again")
	ErrNotOwner       = errors.New("you can only manage your own tickets")
	ErrNotFound       = errors.New("ticket not found")
)

type Service struct {
	db        db.Querier
	sessions  *session.Store
	publisher *mq.Publisher
}

func NewService(querier db.Querier, sessions *session.Store, publisher *mq.Publisher) *Service {
	return &Service{db: querier, sessions: sessions, publisher: publisher}
}

// Create files a ticket with the identity fields snapshotted from the
// session cache, the same shape the web form submitted.
func (s *Service) Create(ctx context.Context, uid string, req CreateRequest) (Ticket, error) {
	snap := s.sessions.Get(ctx, uid)
	if snap == nil || snap.UID == "" {
		return Ticket{}, ErrSessionExpired
	}

	t := Ticket{
		ID:          uuid.NewString(),
		Subject:     req.Subject,
		Description: req.Description,
		Fname:       snap.FirstName,
		Lname:       snap.LastName,
		Email:       snap.Email,
		UID:         snap.UID,
		Status:      StatusOpen,
		DateCreated: time.Now(),
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO tickets (id, subject, description, fname, lname, email, uid, status, date_created)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, t.ID, t.Subject, t.Description, t.Fname, t.Lname, t.Email, t.UID, t.Status, t.DateCreated)
	if err != nil {
		return Ticket{}, err
	}

	s.notify(ctx, "ticket.created", t)
	return t, nil
}

func (s *Service) ListByOwner(ctx context.Context, uid string) ([]Ticket, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, subject, description, fname, lname, email, uid, status, date_created
		FROM tickets WHERE uid=$1
		ORDER BY date_created DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.Subject, &t.Description, &t.Fname, &t.Lname,
			&t.Email, &t.UID, &t.Status, &t.DateCreated); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Close moves an open ticket to closed. Ownership is enforced in the
// statement itself; zero affected rows means the ticket is missing,
// already closed, or not the caller's.
func (s *Service) Close(ctx context.Context, id, uid string) (Ticket, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE tickets SET status=$3
		WHERE id=$1 AND uid=$2 AND status=$4
		RETURNING id, subject, description, fname, lname, email, uid, status, date_created
	`, id, uid, StatusClosed, StatusOpen)

	var t Ticket
	if err := row.Scan(&t.ID, &t.Subject, &t.Description, &t.Fname, &t.Lname,
		&t.Email, &t.UID, &t.Status, &t.DateCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ticket{}, ErrNotFound
		}
		return Ticket{}, err
	}

	s.notify(ctx, "ticket.closed", t)
	return t, nil
}

// Delete checks ownership before issuing the delete, so a mismatched
// caller never mutates anything, and the statement still carries the
// owner for authoritative enforcement.
func (s *Service) Delete(ctx context.Context, id, uid string) error {
	var owner string
	if err := s.db.QueryRow(ctx, `SELECT uid FROM tickets WHERE id=$1`, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if owner != uid {
		return ErrNotOwner
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND uid=$2`, id, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) notify(ctx context.Context, routingKey string, t Ticket) {
	err := s.publisher.Publish(ctx, routingKey, Event{
		TicketID: t.ID,
		UID:      t.UID,
		Subject:  t.Subject,
		Status:   t.Status,
		At:       time.Now(),
	})
	if err != nil {
		log.Printf("ticket event publish failed: %v", err)
	}
}
