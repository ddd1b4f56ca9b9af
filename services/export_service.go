package services

import (
	"bytes"
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Dosada05/archery-tournament/codes"
	"github.com/Dosada05/archery-tournament/export"
	"github.com/Dosada05/archery-tournament/models"
	"github.com/Dosada05/archery-tournament/ranking"
	"github.com/Dosada05/archery-tournament/storage"
)

// ExportResults renders the results workbook and hands it to the uploader
// under keyPrefix.
func (s *TournamentService) ExportResults(ctx context.Context, snapshot models.Snapshot, uploader storage.FileUploader, keyPrefix string) (*storage.UploadResult, error) {
	var result *storage.UploadResult
	err := s.withTelemetry(ctx, "ExportResults", []attribute.KeyValue{
		attribute.String("tournament_id", snapshot.Tournament.ID),
	}, func(ctx context.Context) error {
		if uploader == nil {
			return ErrNoUploader
		}
		standings := ranking.RankDivisions(snapshot.Archers, snapshot.Scores)

		var buf bytes.Buffer
		if err := export.Write(&buf, snapshot, standings); err != nil {
			return err
		}

		key := storage.ObjectKey(keyPrefix, export.FileName(snapshot.Tournament, s.now()))
		res, err := uploader.Upload(ctx, key, export.ContentType, &buf)
		if err != nil {
			return err
		}
		result = res
		s.logger.InfoContext(ctx, "results exported",
			slog.String("key", res.Key),
			slog.String("location", res.Location),
		)
		return nil
	})
	return result, err
}

// ResolveCode looks an access code up across the targets of several
// tournaments.
func (s *TournamentService) ResolveCode(ctx context.Context, snapshots []models.Snapshot, raw string) (codes.TargetRef, error) {
	var ref codes.TargetRef
	err := s.withTelemetry(ctx, "ResolveCode", nil, func(ctx context.Context) error {
		var refs []codes.TargetRef
		for _, snap := range snapshots {
			refs = append(refs, codes.Refs(snap)...)
		}
		var err error
		ref, err = codes.Resolve(raw, refs)
		return err
	})
	return ref, err
}
