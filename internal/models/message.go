package models

// Message is a single post on the board. CreationDate is an ISO-8601 UTC
// string (see ident.Timestamp); with the fixed-width layout, lexicographic
// order on CreationDate is chronological order.
type Message struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Body         string `json:"body"`
	CreationDate string `json:"creationDate"`
}
