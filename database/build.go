package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type BuildRow struct {
	Id       string
	BuiltAt  time.Time
	Checksum string
	RealDays int
	Cities   int
}

type BuildDayRow struct {
	Date      string
	Morning   float64
	Afternoon float64
	Temp      float64
	Solar     float64
}

func (d *Database) SaveBuild(ctx context.Context, b BuildRow, days []BuildDayRow) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction for build %s: %w", b.Id, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO build (id, built_at, checksum, real_days, cities)
		VALUES (?, ?, ?, ?, ?)`,
		b.Id, b.BuiltAt.UTC().Format(timestampLayout), b.Checksum, b.RealDays, b.Cities)
	if err != nil {
		return fmt.Errorf("saving build %s: %w", b.Id, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO build_day (build_id, date, morning, afternoon, temp, solar)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing build days: %w", err)
	}
	defer stmt.Close()

	for _, day := range days {
		_, err := stmt.ExecContext(ctx, b.Id, day.Date, day.Morning, day.Afternoon, day.Temp, day.Solar)
		if err != nil {
			return fmt.Errorf("saving build day %s: %w", day.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit build %s: %w", b.Id, err)
	}
	return nil
}

const buildColumns = `id, built_at, checksum, real_days, cities`

func scanBuild(row interface{ Scan(...any) error }) (BuildRow, error) {
	var b BuildRow
	var ts string
	if err := row.Scan(&b.Id, &ts, &b.Checksum, &b.RealDays, &b.Cities); err != nil {
		return BuildRow{}, err
	}
	t, err := time.Parse(timestampLayout, ts)
	if err != nil {
		return BuildRow{}, fmt.Errorf("parsing build timestamp: %w", err)
	}
	b.BuiltAt = t
	return b, nil
}

// LatestBuild returns the newest build made from sources with checksum.
func (d *Database) LatestBuild(ctx context.Context, checksum string) (BuildRow, bool, error) {
	row := d.read.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM build
		WHERE checksum = ?
		ORDER BY built_at DESC, rowid DESC
		LIMIT 1`, checksum)

	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRow{}, false, nil
	}
	if err != nil {
		return BuildRow{}, false, fmt.Errorf("fetching latest build: %w", err)
	}
	return b, true, nil
}

func (d *Database) GetBuilds(ctx context.Context, limit int) ([]BuildRow, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM build
		ORDER BY built_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildRow
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading build rows: %w", err)
	}
	return builds, nil
}

func (d *Database) GetBuildDays(ctx context.Context, buildId string) ([]BuildDayRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT date, morning, afternoon, temp, solar
		FROM build_day
		WHERE build_id = ?
		ORDER BY date`, buildId)
	if err != nil {
		return nil, fmt.Errorf("fetching days of build %s: %w", buildId, err)
	}
	defer rows.Close()

	var days []BuildDayRow
	for rows.Next() {
		var r BuildDayRow
		if err := rows.Scan(&r.Date, &r.Morning, &r.Afternoon, &r.Temp, &r.Solar); err != nil {
			return nil, err
		}
		days = append(days, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading build day rows: %w", err)
	}
	return days, nil
}

// PurgeBuilds removes builds older than retentionDays. The newest build is
// always kept so a restart can restore it.
func (d *Database) PurgeBuilds(ctx context.Context, retentionDays int) error {
	d.logger.Debug("purging builds")
	res, err := d.write.ExecContext(ctx, `
		DELETE FROM build
		WHERE built_at < ?
		AND id <> (SELECT id FROM build ORDER BY built_at DESC, rowid DESC LIMIT 1)`,
		d.retentionCutoff(retentionDays))
	if err != nil {
		return fmt.Errorf("error when purging builds: %w", err)
	}
	d.logRowsAffected(res, "build")
	return nil
}
