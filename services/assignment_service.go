package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Dosada05/archery-tournament/assignments"
	"github.com/Dosada05/archery-tournament/codes"
	"github.com/Dosada05/archery-tournament/models"
)

type AssignParams struct {
	StartTarget int
	// Replace discards existing assignments instead of refusing to run.
	Replace bool
}

type AssignResult struct {
	Assignments []models.Assignment
	Targets     []models.Target
	// Conflicts lists targets where two archers share a club.
	Conflicts []int
}

// AssignTargets places every archer on a target and gives each target a
// random access code shared by its archers.
func (s *TournamentService) AssignTargets(ctx context.Context, snapshot models.Snapshot, params AssignParams) (models.Snapshot, AssignResult, error) {
	var out models.Snapshot
	var res AssignResult

	err := s.withTelemetry(ctx, "AssignTargets", []attribute.KeyValue{
		attribute.String("tournament_id", snapshot.Tournament.ID),
		attribute.Int("archers", len(snapshot.Archers)),
	}, func(ctx context.Context) error {
		if len(snapshot.Archers) == 0 {
			return ErrNoArchers
		}
		if len(snapshot.Assignments) > 0 && !params.Replace {
			return fmt.Errorf("%w: %d assignments", ErrAssignmentsExist, len(snapshot.Assignments))
		}

		tournamentType := snapshot.Tournament.Type
		if tournamentType == "" {
			tournamentType = s.defaultType
		}
		generated := assignments.GenerateAssignments(snapshot.Archers, tournamentType, params.StartTarget)

		targetCodes := make(map[int]string)
		for i := range generated.Assignments {
			a := &generated.Assignments[i]
			code, ok := targetCodes[a.TargetNumber]
			if !ok {
				var err error
				if code, err = codes.NewRandomCode(); err != nil {
					return err
				}
				targetCodes[a.TargetNumber] = code
			}
			a.AccessCode = code
		}

		res = AssignResult{
			Assignments: generated.Assignments,
			Targets:     generated.Targets(),
			Conflicts:   assignments.CheckClubConflicts(generated.Assignments, snapshot.Archers),
		}
		if len(res.Conflicts) > 0 {
			s.logger.WarnContext(ctx, "club conflicts after assignment",
				slog.Any("targets", res.Conflicts),
			)
		}

		out = snapshot
		out.Tournament.Type = tournamentType
		out.Assignments = generated.Assignments
		s.metrics.RecordAssignments(len(generated.Assignments), generated.TargetCount)
		s.logger.InfoContext(ctx, "targets assigned",
			slog.String("tournament_id", snapshot.Tournament.ID),
			slog.Int("archers", len(generated.Assignments)),
			slog.Int("targets", generated.TargetCount),
		)
		return nil
	})
	if err != nil {
		return models.Snapshot{}, AssignResult{}, err
	}
	return out, res, nil
}

// TargetBoard derives every target's status from the recorded scores. An end
// counts as confirmed once all of its arrows are shot.
func (s *TournamentService) TargetBoard(snapshot models.Snapshot) []models.Target {
	arrowsPerEnd := snapshot.Tournament.ArrowsPerEnd

	type endKey struct {
		archer string
		end    int
	}
	shot := make(map[endKey]int)
	for _, sc := range snapshot.Scores {
		if sc.Value != nil {
			shot[endKey{sc.ArcherID, sc.End}]++
		}
	}

	progress := make(map[string]*assignments.AssignmentProgress)
	for k, n := range shot {
		p, ok := progress[k.archer]
		if !ok {
			p = &assignments.AssignmentProgress{ArcherID: k.archer}
			progress[k.archer] = p
		}
		p.ArrowsRecorded += n
		p.EndsRecorded++
		if arrowsPerEnd > 0 && n >= arrowsPerEnd {
			p.EndsConfirmed++
		}
	}

	byTarget := make(map[int][]assignments.AssignmentProgress)
	distance := make(map[int]int)
	for _, a := range snapshot.Assignments {
		p := assignments.AssignmentProgress{ArcherID: a.ArcherID}
		if rec, ok := progress[a.ArcherID]; ok {
			p = *rec
		}
		byTarget[a.TargetNumber] = append(byTarget[a.TargetNumber], p)
		distance[a.TargetNumber] = a.Distance
	}

	targets := make([]models.Target, 0, len(byTarget))
	for number, list := range byTarget {
		targets = append(targets, models.Target{
			Number:   number,
			Distance: distance[number],
			Status:   assignments.DeriveTargetStatus(list),
		})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Number < targets[j].Number })
	return targets
}
