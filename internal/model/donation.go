package model

import "time"

// Approval states for donations and referrals.
//
// These are the literal strings stored in the database — comparisons are
// case-sensitive. A row counts toward scores only when its status is
// exactly StatusApproved. Approval itself happens through the operator
// endpoints, never through participant-facing intake.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Donation is a submitted donation transaction reference.
//
// Intake creates donations with status Pending. An operator later flips the
// status to Approved or Rejected. Donations are never deleted — the table is
// an append-only log of everything participants claimed to have donated.
//
// Email references a Participant by value. There is no enforced foreign key:
// a donation for an unregistered email is stored silently (it simply never
// wins anything, because the draw is keyed on registered participants).
type Donation struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	TxID        string    `json:"txid"`
	Amount      float64   `json:"amount"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// Referral records that one participant (RefUID) referred another (Email).
//
// Same lifecycle as Donation: created Pending by intake, promoted by an
// operator, never deleted. RefUID is not validated against the participants
// table — a dangling referral code is stored and simply never scores.
type Referral struct {
	ID          int64     `json:"id"`
	RefUID      string    `json:"refUID"`
	Email       string    `json:"email"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}
