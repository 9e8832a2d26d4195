package chat

import "time"

type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"-"`
	Text       string    `json:"text"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Timestamp  time.Time `json:"timestamp"`
}

type SendRequest struct {
	Text string `json:"text"`
}
