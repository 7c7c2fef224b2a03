package model

import "time"

// ScoreRecord is the accumulated score for one identity.
//
// Key is an email for donation scores or a participant UID for referral
// bonuses — the synchronization pass keys donations by email and referrals
// by refUID, exactly as the rows were submitted.
//
// The score table is DERIVED state, not authoritative: it can always be
// recomputed from the approved donations and referrals. Scores only ever
// grow, because synchronization is purely additive.
type ScoreRecord struct {
	Key       string    `json:"email"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"-"`
}

// DonorStanding is one row of the top-donors leaderboard.
//
// UID mirrors Email, and Chances mirrors Total — the front-end table has
// four columns and the API has always filled them this way. Kept for
// wire compatibility with the original page.
type DonorStanding struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Chances int    `json:"chances"`
	Total   int    `json:"total"`
}

// ReferrerStanding is one row of the top-referrals leaderboard.
// Email mirrors UID for the same wire-compatibility reason as DonorStanding.
type ReferrerStanding struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Count int    `json:"count"`
}
