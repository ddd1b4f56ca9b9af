package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/ranking"
)

type SetParams struct {
	MatchID       string
	Archer1Arrows []*int
	Archer2Arrows []*int
}

type MatchResult struct {
	Match   *models.EliminationMatch
	Bracket models.EliminationBracket
	// Advanced holds the later-round matches that received an archer.
	Advanced []*models.EliminationMatch
}

// RecordSet scores one set. A decided match moves its winner on, and a
// decided semifinal sends the loser to the bronze match.
func (s *TournamentService) RecordSet(ctx context.Context, snapshot models.Snapshot, params SetParams) (models.Snapshot, MatchResult, error) {
	var out models.Snapshot
	var res MatchResult

	err := s.withTelemetry(ctx, "RecordSet", []attribute.KeyValue{
		attribute.String("match_id", params.MatchID),
	}, func(ctx context.Context) error {
		match, err := findMatch(snapshot, params.MatchID)
		if err != nil {
			return err
		}
		updated, err := brackets.ApplySet(match, params.Archer1Arrows, params.Archer2Arrows, s.rules)
		if err != nil {
			return err
		}
		s.metrics.RecordSet(updated.Status == models.MatchStatusShootOff)

		out, res, err = s.settle(ctx, snapshot, updated)
		return err
	})
	if err != nil {
		return models.Snapshot{}, MatchResult{}, err
	}
	return out, res, nil
}

// ResolveShootOff decides a tied match from the two shoot-off distances.
func (s *TournamentService) ResolveShootOff(ctx context.Context, snapshot models.Snapshot, matchID string, archer1Distance, archer2Distance float64) (models.Snapshot, MatchResult, error) {
	var out models.Snapshot
	var res MatchResult

	err := s.withTelemetry(ctx, "ResolveShootOff", []attribute.KeyValue{
		attribute.String("match_id", matchID),
	}, func(ctx context.Context) error {
		match, err := findMatch(snapshot, matchID)
		if err != nil {
			return err
		}
		updated, err := brackets.ResolveShootOff(match, archer1Distance, archer2Distance)
		if err != nil {
			return err
		}
		out, res, err = s.settle(ctx, snapshot, updated)
		return err
	})
	if err != nil {
		return models.Snapshot{}, MatchResult{}, err
	}
	return out, res, nil
}

// settle stores the updated match and, if it is decided, propagates the
// result through its bracket.
func (s *TournamentService) settle(ctx context.Context, snapshot models.Snapshot, updated *models.EliminationMatch) (models.Snapshot, MatchResult, error) {
	bracketIdx := -1
	for i, b := range snapshot.Brackets {
		if b.ID == updated.BracketID {
			bracketIdx = i
			break
		}
	}
	if bracketIdx < 0 {
		return models.Snapshot{}, MatchResult{}, fmt.Errorf("%w: %s", ErrBracketNotFound, updated.BracketID)
	}
	bracket := snapshot.Brackets[bracketIdx]

	var own []*models.EliminationMatch
	for _, m := range snapshot.Matches {
		if m.BracketID == bracket.ID {
			own = append(own, m)
		}
	}
	own = brackets.Replace(own, updated)

	res := MatchResult{Match: updated}
	if updated.IsCompleted() {
		if updated.NextMatchPosition != nil {
			next, err := brackets.AdvanceWinner(updated, own)
			if err != nil {
				return models.Snapshot{}, MatchResult{}, err
			}
			own = brackets.Replace(own, next)
			res.Advanced = append(res.Advanced, next)
		}
		if bracket.BronzeMatch && updated.RoundNumber == brackets.TotalRounds(bracket.BracketSize)-1 {
			bronze, err := brackets.RouteLoser(updated, own)
			if err != nil {
				return models.Snapshot{}, MatchResult{}, err
			}
			own = brackets.Replace(own, bronze)
			res.Advanced = append(res.Advanced, bronze)
		}
		s.logger.InfoContext(ctx, "match decided",
			slog.String("match_id", updated.ID),
			slog.String("winner_id", *updated.WinnerID),
			slog.Int("round", updated.RoundNumber),
		)
	}

	progressed := brackets.Progress(bracket, own)
	res.Bracket = progressed

	byID := make(map[string]*models.EliminationMatch, len(own))
	for _, m := range own {
		byID[m.ID] = m
	}
	out := snapshot
	out.Matches = make([]*models.EliminationMatch, len(snapshot.Matches))
	for i, m := range snapshot.Matches {
		if u, ok := byID[m.ID]; ok && m.BracketID == bracket.ID {
			out.Matches[i] = u
			continue
		}
		out.Matches[i] = m
	}
	out.Brackets = append([]models.EliminationBracket(nil), snapshot.Brackets...)
	out.Brackets[bracketIdx] = progressed

	if progressed.IsCompleted && !bracket.IsCompleted {
		s.logger.InfoContext(ctx, "bracket completed",
			slog.String("bracket_id", bracket.ID),
			slog.String("division", ranking.DivisionKey(bracket.Category, bracket.Gender)),
		)
	}
	return out, res, nil
}

func findMatch(snapshot models.Snapshot, matchID string) (*models.EliminationMatch, error) {
	for _, m := range snapshot.Matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
}
