package models

import "time"

// User is the public view of an account. Credential material never leaves
// the users service, so there is nothing to hide here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
