package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"oscehub/internal/domain"
	"oscehub/internal/port"
)

type stationRepo struct {
	db *sqlx.DB
}

// NewStationRepo creates a new PostgreSQL-backed StationRepository.
func NewStationRepo(db *sqlx.DB) port.StationRepository {
	return &stationRepo{db: db}
}

// Upsert inserts or updates a station keyed by its content-derived ID. The
// DO UPDATE is guarded with IS DISTINCT FROM so re-publishing identical
// content touches no row, which is how a no-op is distinguished from an
// overwrite: RowsAffected 0 means the store already held this exact record.
// Timestamps are stamped as query arguments; rec itself is never written.
func (r *stationRepo) Upsert(ctx context.Context, rec *domain.StationRecord) (port.UpsertOutcome, error) {
	now := time.Now().UTC()

	query := `INSERT INTO static_osce (
		id, actor_brief, examiner_brief, markscheme,
		category, station_name, candidate_brief, source_file,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10
	)
	ON CONFLICT (id) DO UPDATE SET
		actor_brief = EXCLUDED.actor_brief,
		examiner_brief = EXCLUDED.examiner_brief,
		markscheme = EXCLUDED.markscheme,
		category = EXCLUDED.category,
		station_name = EXCLUDED.station_name,
		candidate_brief = EXCLUDED.candidate_brief,
		source_file = EXCLUDED.source_file,
		updated_at = EXCLUDED.updated_at
	WHERE (
		static_osce.actor_brief, static_osce.examiner_brief, static_osce.markscheme,
		static_osce.category, static_osce.station_name, static_osce.candidate_brief,
		static_osce.source_file
	) IS DISTINCT FROM (
		EXCLUDED.actor_brief, EXCLUDED.examiner_brief, EXCLUDED.markscheme,
		EXCLUDED.category, EXCLUDED.station_name, EXCLUDED.candidate_brief,
		EXCLUDED.source_file
	)`

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.ActorBrief, rec.ExaminerBrief, rec.Markscheme,
		rec.Category, rec.StationName, rec.CandidateBrief, rec.SourceFile,
		now, now)
	if err != nil {
		return port.UpsertNoOp, fmt.Errorf("stationRepo.Upsert: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return port.UpsertNoOp, fmt.Errorf("stationRepo.Upsert rows affected: %w", err)
	}
	if n == 0 {
		return port.UpsertNoOp, nil
	}
	return port.UpsertApplied, nil
}
