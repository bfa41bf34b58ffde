package email

// brevoSender identifies the sending address in a Brevo payload
type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// brevoRecipient identifies a destination address
type brevoRecipient struct {
	Email string `json:"email"`
}

// brevoEmailRequest is the payload for POST /v3/smtp/email
type brevoEmailRequest struct {
	Sender      brevoSender      `json:"sender"`
	To          []brevoRecipient `json:"to"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
}
