// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Participant represents a registered raffle participant.
//
// The `json:"..."` struct tags tell Go's encoding/json package how to
// serialize/deserialize this struct to/from JSON:
//
//	p := Participant{UID: "abc", Email: "a@x.com"}
//	json.Marshal(p) → {"uid":"abc","email":"a@x.com",...}
//
// A participant is created once at registration and never modified.
// Email is unique across all participants — registration enforces this.
type Participant struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}
