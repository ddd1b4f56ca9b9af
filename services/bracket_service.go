package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/archery-tournament/brackets"
	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/ranking"
)

type BuildParams struct {
	// Divisions limits the run to these division keys ("senior-female");
	// empty means every division with at least two archers.
	Divisions   []string
	Cutoff      int
	BronzeMatch bool
	// Replace regenerates brackets that already exist.
	Replace bool
}

type BracketResult struct {
	Bracket models.EliminationBracket
	Matches []*models.EliminationMatch
	Seeds   []models.RankedArcher
}

// RankDivisions ranks every division from the recorded scores.
func (s *TournamentService) RankDivisions(ctx context.Context, snapshot models.Snapshot) ([]ranking.Standing, error) {
	var standings []ranking.Standing
	err := s.withTelemetry(ctx, "RankDivisions", []attribute.KeyValue{
		attribute.String("tournament_id", snapshot.Tournament.ID),
	}, func(ctx context.Context) error {
		standings = ranking.RankDivisions(snapshot.Archers, snapshot.Scores)
		return nil
	})
	return standings, err
}

// BuildBrackets ranks the requested divisions and builds one bracket per
// division concurrently. Either every bracket is built or none is.
func (s *TournamentService) BuildBrackets(ctx context.Context, snapshot models.Snapshot, params BuildParams) (models.Snapshot, []BracketResult, error) {
	var out models.Snapshot
	var results []BracketResult

	err := s.withTelemetry(ctx, "BuildBrackets", []attribute.KeyValue{
		attribute.String("tournament_id", snapshot.Tournament.ID),
		attribute.StringSlice("divisions", params.Divisions),
		attribute.Bool("replace", params.Replace),
	}, func(ctx context.Context) error {
		standings, err := s.selectDivisions(ctx, snapshot, params.Divisions)
		if err != nil {
			return err
		}

		existing := make(map[string]models.EliminationBracket)
		for _, b := range snapshot.Brackets {
			existing[ranking.DivisionKey(b.Category, b.Gender)] = b
		}
		if !params.Replace {
			for _, st := range standings {
				if b, ok := existing[st.Division.Key]; ok {
					return fmt.Errorf("%w: %s (bracket %s)", ErrBracketExists, st.Division.Key, b.ID)
				}
			}
		}

		generated := make([]*brackets.Result, len(standings))
		g, gCtx := errgroup.WithContext(ctx)
		for i, st := range standings {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				res, err := brackets.Build(brackets.GenerateBracketParams{
					Category:    st.Division.Category,
					Gender:      st.Division.Gender,
					Archers:     st.Ranked,
					Cutoff:      params.Cutoff,
					BronzeMatch: params.BronzeMatch,
				})
				if err != nil {
					return fmt.Errorf("division %s: %w", st.Division.Key, err)
				}
				generated[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// IDs are handed out in division order so runs are reproducible
		// with a deterministic generator.
		replaced := make(map[string]bool)
		for i, st := range standings {
			res := generated[i]
			bracket := models.EliminationBracket{
				ID:           s.newID(),
				TournamentID: snapshot.Tournament.ID,
				Category:     st.Division.Category,
				Gender:       st.Division.Gender,
				BracketSize:  res.BracketSize,
				BronzeMatch:  params.BronzeMatch,
			}
			for _, m := range res.Matches {
				m.ID = s.newID()
				m.BracketID = bracket.ID
			}
			bracket = brackets.Progress(bracket, res.Matches)

			if old, ok := existing[st.Division.Key]; ok {
				replaced[old.ID] = true
			}
			results = append(results, BracketResult{Bracket: bracket, Matches: res.Matches, Seeds: res.Archers})
			s.metrics.RecordBracket(res.BracketSize)
			s.logger.InfoContext(ctx, "bracket generated",
				slog.String("division", st.Division.Key),
				slog.String("format", res.Format),
				slog.Int("archers", len(res.Archers)),
				slog.Int("bracket_size", res.BracketSize),
				slog.String("bracket_id", bracket.ID),
			)
		}

		out = snapshot
		out.Brackets = nil
		out.Matches = nil
		for _, b := range snapshot.Brackets {
			if !replaced[b.ID] {
				out.Brackets = append(out.Brackets, b)
			}
		}
		for _, m := range snapshot.Matches {
			if !replaced[m.BracketID] {
				out.Matches = append(out.Matches, m)
			}
		}
		for _, r := range results {
			out.Brackets = append(out.Brackets, r.Bracket)
			out.Matches = append(out.Matches, r.Matches...)
		}
		return nil
	})
	if err != nil {
		return models.Snapshot{}, nil, err
	}
	return out, results, nil
}

func (s *TournamentService) selectDivisions(ctx context.Context, snapshot models.Snapshot, keys []string) ([]ranking.Standing, error) {
	all := ranking.RankDivisions(snapshot.Archers, snapshot.Scores)

	if len(keys) == 0 {
		var out []ranking.Standing
		for _, st := range all {
			if len(st.Ranked) < 2 {
				s.logger.InfoContext(ctx, "skipping division without enough archers",
					slog.String("division", st.Division.Key),
					slog.Int("archers", len(st.Ranked)),
				)
				continue
			}
			out = append(out, st)
		}
		if len(out) == 0 {
			return nil, brackets.ErrNotEnoughArchers
		}
		return out, nil
	}

	byKey := make(map[string]ranking.Standing, len(all))
	for _, st := range all {
		byKey[st.Division.Key] = st
	}
	var out []ranking.Standing
	var errs []error
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		st, ok := byKey[k]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDivisionNotFound, k))
			continue
		}
		out = append(out, st)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
