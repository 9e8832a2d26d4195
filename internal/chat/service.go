package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/EthanLeRoux/kryvervoer/internal/db"
	"github.com/EthanLeRoux/kryvervoer/internal/stream"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message text required")

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(querier db.Querier, hub *stream.Hub) *Service {
	return &Service{db: querier, hub: hub}
}

// ChatID derives the conversation id from its two participants. The
// uids are sorted before joining so both sides land on the same id.
func ChatID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strings.Join([]string{a, b}, "_")
}

func (s *Service) SendMessage(ctx context.Context, senderID, receiverID, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	m := Message{
		ID:         uuid.NewString(),
		ChatID:     ChatID(senderID, receiverID),
		Text:       text,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Timestamp:  time.Now(),
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO messages (id, chat_id, text, sender_id, receiver_id, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.ChatID, m.Text, m.SenderID, m.ReceiverID, m.Timestamp)
	if err != nil {
		return Message{}, err
	}

	if s.hub != nil {
		if payload, err := json.Marshal(m); err == nil {
			s.hub.Broadcast(m.ChatID, payload)
		}
	}
	return m, nil
}

// History returns the conversation oldest-first, the order the thread
// renders in.
func (s *Service) History(ctx context.Context, userID, peerID string) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, chat_id, text, sender_id, receiver_id, sent_at
		FROM messages WHERE chat_id=$1
		ORDER BY sent_at ASC
	`, ChatID(userID, peerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Text, &m.SenderID, &m.ReceiverID, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
