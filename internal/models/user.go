package models

// User is a board member. Email is unique across users.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CreationDate string `json:"creationDate"`
}
