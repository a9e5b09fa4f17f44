package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// DB exposes the underlying handle for migrations.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) RecordTagUsage(ctx context.Context, tag string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tag_stats (tag, count, last_used_at)
		VALUES (?, 1, ?)
		ON CONFLICT(tag) DO UPDATE SET
			count = count + 1,
			last_used_at = excluded.last_used_at`,
		tag, mustTime(at),
	)
	return err
}

func (r *SQLiteRepository) GetTagStat(ctx context.Context, tag string) (TagStat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT tag, count, last_used_at FROM tag_stats WHERE tag = ?`, tag)
	stat, err := scanTagStat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TagStat{}, ErrNotFound
		}
		return TagStat{}, err
	}
	return stat, nil
}

// ListTagStats returns all stats ordered oldest-used first, so callers can
// replay them into the in-memory index in seeding order.
func (r *SQLiteRepository) ListTagStats(ctx context.Context) ([]TagStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag, count, last_used_at FROM tag_stats ORDER BY last_used_at ASC, tag ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TagStat, 0)
	for rows.Next() {
		stat, scanErr := scanTagStat(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteTagStat(ctx context.Context, tag string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tag_stats WHERE tag = ?`, tag)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) RecordCapture(ctx context.Context, in Capture) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO captures (id, captured_at, chars, tags)
		VALUES (?, ?, ?, ?)`,
		in.ID, mustTime(in.CapturedAt), in.Chars, in.Tags,
	)
	return err
}

func (r *SQLiteRepository) ListCaptures(ctx context.Context, filter CaptureListFilter) ([]Capture, error) {
	args := make([]any, 0, 2)
	query := `SELECT id, captured_at, chars, tags FROM captures ORDER BY captured_at DESC` +
		applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Capture, 0)
	for rows.Next() {
		item, scanErr := scanCapture(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PruneCaptures(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM captures WHERE captured_at < ?`, mustTime(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTagStat(s scanner) (TagStat, error) {
	var out TagStat
	var lastUsed string
	if err := s.Scan(&out.Tag, &out.Count, &lastUsed); err != nil {
		return TagStat{}, err
	}
	at, err := parseRequiredTime(lastUsed)
	if err != nil {
		return TagStat{}, err
	}
	out.LastUsedAt = at
	return out, nil
}

func scanCapture(s scanner) (Capture, error) {
	var out Capture
	var captured string
	if err := s.Scan(&out.ID, &captured, &out.Chars, &out.Tags); err != nil {
		return Capture{}, err
	}
	at, err := parseRequiredTime(captured)
	if err != nil {
		return Capture{}, err
	}
	out.CapturedAt = at
	return out, nil
}
