package queue

import "github.com/carnage999-max/ultimate-app-manager/internal/mail"

const (
	TypeEmailSend = "email:send"
)

// EmailSendPayload is the task body of TypeEmailSend.
type EmailSendPayload struct {
	Message mail.Message `json:"message"`
	Kind    string       `json:"kind"`
}
