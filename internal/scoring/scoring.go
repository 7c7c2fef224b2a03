// Package scoring maps donation amounts to raffle scores.
//
// This is the one piece of pure business logic in the system: a fixed tier
// table, no I/O, no state. Keeping it in its own package means the
// synchronization pass, the leaderboard queries, and the tests all share
// exactly one implementation of the table — the tiers live here and
// nowhere else.
package scoring

import "math"

// ReferralBonus is the flat score credited to the referring participant
// for each approved referral.
const ReferralBonus = 15

// Score converts a donation amount to an integer score.
//
// Tier table. The bracket boundaries are deliberately uneven — note that
// 10 belongs to the second tier but 10.01 to the third:
//
//	[1, 5)    → 1
//	[5, 10]   → 12
//	(10, 20]  → 24
//	(20, 50]  → 63
//	(50, 100] → 110
//	(100, ∞)  → 110 + floor((amount − 100) × 1.5)
//
// Anything below 1 (including zero and negative amounts) scores 0.
// Pure and total: same input always gives the same output, no input panics.
func Score(amount float64) int {
	switch {
	case amount >= 1 && amount < 5:
		return 1
	case amount >= 5 && amount <= 10:
		return 12
	case amount > 10 && amount <= 20:
		return 24
	case amount > 20 && amount <= 50:
		return 63
	case amount > 50 && amount <= 100:
		return 110
	case amount > 100:
		return 110 + int(math.Floor((amount-100)*1.5))
	default:
		return 0
	}
}
