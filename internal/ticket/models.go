package ticket

import "time"

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Ticket struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Fname       string    `json:"fname"`
	Lname       string    `json:"lname"`
	Email       string    `json:"email"`
	UID         string    `json:"uid"`
	Status      string    `json:"status"`
	DateCreated time.Time `json:"dateCreated"`
}

type CreateRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Event is what the support desk receives over the broker.
type Event struct {
	TicketID string    `json:"ticket_id"`
	UID      string    `json:"uid"`
	Subject  string    `json:"subject"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}
