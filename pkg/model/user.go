package model

import "go.mongodb.org/mongo-driver/bson"

// User is a read-only display record from the users collection.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	JoinDate string `json:"joinDate,omitempty"`
}

func NormalizeUser(id string, doc bson.M) User {
	name := firstString(doc, "name")
	if name == "" {
		name = "N/A"
	}
	email := firstString(doc, "email")
	if email == "" {
		email = "N/A"
	}

	return User{
		ID:       id,
		Name:     name,
		Email:    email,
		Role:     firstString(doc, "role"),
		JoinDate: firstString(doc, "joinDate"),
	}
}
