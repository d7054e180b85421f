package catalog

import "time"

// ContactMessage is a message left through the storefront contact form.
type ContactMessage struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Responded bool      `json:"responded"`
}

// Unresponded returns the messages still waiting for an answer.
func Unresponded(msgs []ContactMessage) []ContactMessage {
	var out []ContactMessage
	for _, m := range msgs {
		if !m.Responded {
			out = append(out, m)
		}
	}
	return out
}

// AdminIdentity is the admin record returned on login.
type AdminIdentity struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}
