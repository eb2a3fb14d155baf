package domain

// EmailMessage is a rendered email handed to a mail transport.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}
