package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
	"github.com/sakif/donation-raffle/internal/scoring"
)

// ScoreService owns the synchronization pass and the three leaderboard
// queries. It is read-mostly: the only thing it ever writes is the derived
// scores table.
type ScoreService struct {
	donations repository.DonationRepository
	referrals repository.ReferralRepository
	scores    repository.ScoreRepository
	logger    *slog.Logger
}

// NewScoreService creates a ScoreService.
func NewScoreService(
	donations repository.DonationRepository,
	referrals repository.ReferralRepository,
	scores repository.ScoreRepository,
	logger *slog.Logger,
) *ScoreService {
	return &ScoreService{
		donations: donations,
		referrals: referrals,
		scores:    scores,
		logger:    logger,
	}
}

// Synchronize folds every Approved donation and referral into the scores
// table and returns the number of distinct score records it touched.
//
// NOT IDEMPOTENT — ON PURPOSE:
// Every invocation re-applies every Approved row, additively. Run it twice
// on an unchanged table and every affected score doubles. The original
// system behaved exactly this way (approval lives in the status column, and
// nothing ever flips a row to a "already counted" state), so operators
// treat sync as a once-per-approval-batch action. Making it idempotent
// would need a third status or a processed-marker — a real behavior change,
// tracked as future work, not something to slip in quietly.
//
// NO ROLLBACK:
// A failure mid-loop leaves the scores table partially updated. The pass is
// a sequence of independent read-then-write steps with no surrounding
// transaction, matching the row-store contract. The error tells the
// operator which step failed; re-running after a partial failure
// double-counts the rows that had already been applied (see above).
func (s *ScoreService) Synchronize(ctx context.Context) (int, error) {
	donations, err := s.donations.ListDonations(ctx)
	if err != nil {
		return 0, apperror.Upstream("syncing scores", err)
	}
	referrals, err := s.referrals.ListReferrals(ctx)
	if err != nil {
		return 0, apperror.Upstream("syncing scores", err)
	}

	touched := map[string]bool{}

	for _, d := range donations {
		if d.Status != model.StatusApproved {
			continue
		}
		if err := s.addScore(ctx, d.Email, scoring.Score(d.Amount)); err != nil {
			return len(touched), err
		}
		touched[d.Email] = true
	}

	for _, r := range referrals {
		if r.Status != model.StatusApproved {
			continue
		}
		if err := s.addScore(ctx, r.RefUID, scoring.ReferralBonus); err != nil {
			return len(touched), err
		}
		touched[r.RefUID] = true
	}

	s.logger.Info("scores synchronized",
		slog.Int("donations", len(donations)),
		slog.Int("referrals", len(referrals)),
		slog.Int("updated", len(touched)),
	)

	return len(touched), nil
}

// addScore adds points to the record for key, creating it if absent.
//
// This is the read-then-write at the heart of the sync pass: get the
// current score, add, write back. Concurrent sync runs can interleave here
// and lose an update — accepted, because sync is operator-triggered and
// effectively single-writer (see the note on CreateScore in the sqlite
// package).
func (s *ScoreService) addScore(ctx context.Context, key string, points int) error {
	rec, err := s.scores.GetScore(ctx, key)
	if errors.Is(err, apperror.ErrNotFound) {
		rec = &model.ScoreRecord{Key: key, Score: points}
		if err := s.scores.CreateScore(ctx, rec); err != nil {
			return apperror.Upstream("syncing scores", err)
		}
		return nil
	}
	if err != nil {
		return apperror.Upstream("syncing scores", err)
	}

	rec.Score += points
	if err := s.scores.UpdateScore(ctx, rec); err != nil {
		return apperror.Upstream("syncing scores", err)
	}
	return nil
}

// TopDonors recomputes the donor leaderboard from the donations table.
//
// Approved rows only, scored through the same tier table the sync pass
// uses. Ties break by email ascending — the underlying accumulation is a
// map, so without an explicit tie-break the order would wobble between
// calls and the front-end table would shuffle under the user's cursor.
//
// UID and Chances mirror Email and Total in every entry; see
// model.DonorStanding for why those columns exist.
func (s *ScoreService) TopDonors(ctx context.Context) ([]model.DonorStanding, error) {
	donations, err := s.donations.ListDonationsByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, apperror.Upstream("loading top donors", err)
	}

	totals := map[string]int{}
	for _, d := range donations {
		totals[d.Email] += scoring.Score(d.Amount)
	}

	standings := make([]model.DonorStanding, 0, len(totals))
	for email, total := range totals {
		standings = append(standings, model.DonorStanding{
			UID:     email,
			Email:   email,
			Chances: total,
			Total:   total,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].Email < standings[j].Email
	})

	return standings, nil
}

// TopReferrals recomputes the referrer leaderboard: approved referral count
// per referrer UID, descending, ties by UID ascending.
func (s *ScoreService) TopReferrals(ctx context.Context) ([]model.ReferrerStanding, error) {
	referrals, err := s.referrals.ListReferralsByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, apperror.Upstream("loading top referrals", err)
	}

	counts := map[string]int{}
	for _, r := range referrals {
		counts[r.RefUID]++
	}

	standings := make([]model.ReferrerStanding, 0, len(counts))
	for uid, count := range counts {
		standings = append(standings, model.ReferrerStanding{
			UID:   uid,
			Email: uid,
			Count: count,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Count != standings[j].Count {
			return standings[i].Count > standings[j].Count
		}
		return standings[i].UID < standings[j].UID
	})

	return standings, nil
}

// TopScores reads the persisted scores table directly — this is the one
// leaderboard that reflects synchronization state rather than recomputing
// from the raw rows. Score descending, ties by key ascending.
func (s *ScoreService) TopScores(ctx context.Context) ([]model.ScoreRecord, error) {
	records, err := s.scores.ListScores(ctx)
	if err != nil {
		return nil, apperror.Upstream("loading top scores", err)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Key < records[j].Key
	})

	return records, nil
}
