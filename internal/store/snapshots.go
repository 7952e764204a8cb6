package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/driftlab/driftwatch/internal/apperr"
	"github.com/driftlab/driftwatch/internal/models"
)

const snapshotColumns = `startup_id, version, timestamp, problem, target_user,
	job_to_be_done, solution, value_prop, primary_channel_type,
	primary_channel_description, hypothesis, metric, timeframe,
	tech_feasibility_notes, top_risks, declared_next_steps`

// EnsureStartup inserts the startup row if it does not exist yet.
func (db *DB) EnsureStartup(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO startups (id, created_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: ensure startup: %w", err)
	}
	return nil
}

// LatestVersion returns the highest committed version, or 0 when none.
func (db *DB) LatestVersion(ctx context.Context, id string) (int, error) {
	var v int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM snapshots WHERE startup_id = ?`, id).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("store: latest version: %w", err)
	}
	return v, nil
}

// Latest returns the most recent committed snapshot for the startup.
func (db *DB) Latest(ctx context.Context, id string) (*models.Snapshot, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE startup_id = ? ORDER BY version DESC LIMIT 1`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: latest snapshot: %w", err)
	}
	return snap, nil
}

// Append commits a snapshot. The (startup_id, version) primary key is the
// optimistic concurrency guard: a duplicate version fails with
// apperr.ErrVersionConflict and nothing is written.
func (db *DB) Append(ctx context.Context, snap models.Snapshot) error {
	risksJSON, _ := json.Marshal(nonNilSlice(snap.TopRisks))
	stepsJSON, _ := json.Marshal(nonNilSlice(snap.DeclaredNextSteps))

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.StartupID, snap.Version, snap.Timestamp,
		snap.Problem, snap.TargetUser, snap.JobToBeDone,
		snap.Solution, snap.ValueProp,
		channelToNull(snap.PrimaryChannelType), snap.PrimaryChannelDescription,
		snap.Hypothesis, snap.Metric, snap.Timeframe,
		snap.TechFeasibilityNotes, string(risksJSON), string(stepsJSON))
	if err != nil {
		// Only a duplicate (startup_id, version) is a conflict; other
		// constraint classes (FK, NOT NULL) are plain storage errors.
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return apperr.ErrVersionConflict
		}
		return fmt.Errorf("store: append snapshot: %w", err)
	}
	return nil
}

// History returns all committed snapshots ordered by version ascending.
func (db *DB) History(ctx context.Context, id string) ([]models.Snapshot, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE startup_id = ? ORDER BY version ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("store: history scan: %w", err)
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// ListStartups returns all known startups with their latest version.
func (db *DB) ListStartups(ctx context.Context) ([]models.StartupInfo, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.created_at, COALESCE(MAX(n.version), 0)
		FROM startups s LEFT JOIN snapshots n ON n.startup_id = s.id
		GROUP BY s.id ORDER BY s.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list startups: %w", err)
	}
	defer rows.Close()

	var out []models.StartupInfo
	for rows.Next() {
		var info models.StartupInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.LatestVersion); err != nil {
			return nil, fmt.Errorf("store: list scan: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (*models.Snapshot, error) {
	var (
		snap        models.Snapshot
		channelType sql.NullString
		risksJSON   string
		stepsJSON   string
	)
	var problem, targetUser, job, solution, valueProp, channelDesc,
		hypothesis, metric, timeframe, techNotes sql.NullString

	err := s.Scan(&snap.StartupID, &snap.Version, &snap.Timestamp,
		&problem, &targetUser, &job, &solution, &valueProp,
		&channelType, &channelDesc, &hypothesis, &metric, &timeframe,
		&techNotes, &risksJSON, &stepsJSON)
	if err != nil {
		return nil, err
	}

	snap.Problem = fromNull(problem)
	snap.TargetUser = fromNull(targetUser)
	snap.JobToBeDone = fromNull(job)
	snap.Solution = fromNull(solution)
	snap.ValueProp = fromNull(valueProp)
	snap.PrimaryChannelDescription = fromNull(channelDesc)
	snap.Hypothesis = fromNull(hypothesis)
	snap.Metric = fromNull(metric)
	snap.Timeframe = fromNull(timeframe)
	snap.TechFeasibilityNotes = fromNull(techNotes)

	// Persisted values were sanitized on the way in, but never trust the
	// column blindly.
	if channelType.Valid {
		if ct, ok := models.ParseChannelType(channelType.String); ok {
			snap.PrimaryChannelType = &ct
		}
	}

	if err := json.Unmarshal([]byte(risksJSON), &snap.TopRisks); err != nil {
		return nil, fmt.Errorf("top_risks column: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &snap.DeclaredNextSteps); err != nil {
		return nil, fmt.Errorf("declared_next_steps column: %w", err)
	}
	snap.TopRisks = nonNilSlice(snap.TopRisks)
	snap.DeclaredNextSteps = nonNilSlice(snap.DeclaredNextSteps)

	return &snap, nil
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func channelToNull(ct *models.ChannelType) *string {
	if ct == nil {
		return nil
	}
	s := string(*ct)
	return &s
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
