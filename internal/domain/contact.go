package domain

import "time"

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactModified ContactStatus = "modified"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactModified:
		return true
	}
	return false
}

type ContactMessage struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message"`
	SenderRole Role          `json:"senderRole"`
	Status     ContactStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}
