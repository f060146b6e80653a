package models

// ContactRequest is the JSON body of a contact-form submission.
// All three fields are required and must be non-empty.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the liveness payload returned for GET /api/contact.
type StatusResponse struct {
	Message string `json:"message"`
}

// SubmitResponse acknowledges a successful submission.
type SubmitResponse struct {
	OK bool `json:"ok"`
}
