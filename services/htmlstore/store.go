package htmlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/season"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("ssoconcerts.services.htmlstore")

var (
	ErrTableExists  = errors.New("table already exists")
	ErrStoreExists  = errors.New("store file already exists")
	ErrStoreMissing = errors.New("store file does not exist")
)

// Record is one concert detail page as imported from disk.
type Record struct {
	Year        int    `db:"year"`
	Key         string `db:"key"`
	HTMLContent string `db:"html_content"`
}

// ResolveName picks the store file for an import of start..end. The default
// prefix over the full season range maps onto season.DefaultDatabase. When
// appending the file must already exist, otherwise it must not.
func ResolveName(start, end int, prefix string, appendMode bool) (string, error) {
	var name string
	switch {
	case prefix == "sso" && start == season.EarliestYear && end == season.LatestYear:
		name = season.DefaultDatabase
	case start == end:
		name = fmt.Sprintf("%s_html_%d.db", prefix, end)
	default:
		name = fmt.Sprintf("%s_html_%d_%d.db", prefix, start, end)
	}
	return name, CheckTarget(name, appendMode)
}

func CheckTarget(name string, appendMode bool) error {
	exists := fileutil.Exists(name)
	if appendMode && !exists {
		return fmt.Errorf("%w: %s, cannot append records to anything", ErrStoreMissing, name)
	}
	if !appendMode && exists {
		return fmt.Errorf("%w: %s, will not overwrite", ErrStoreExists, name)
	}
	return nil
}

type Store struct {
	path     string
	db       *sqlx.DB
	backedUp bool
}

// Open opens (and lazily creates) a sqlite store file.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// single writer, see the sqlite docs on concurrent writes
	db.SetMaxOpenConns(1)
	return &Store{path: path, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func tableName(year int) string {
	return strconv.Quote(strconv.Itoa(year))
}

// Tables lists the season tables in the store in year order.
func (s *Store) Tables(ctx context.Context) ([]int, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name GLOB '[0-9][0-9][0-9][0-9]'`,
	)
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(names))
	for _, n := range names {
		y, err := strconv.Atoi(n)
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	slices.Sort(years)
	return years, nil
}

func (s *Store) hasTable(ctx context.Context, tx *sqlx.Tx, year int) (bool, error) {
	var n int
	err := tx.GetContext(ctx, &n,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		strconv.Itoa(year),
	)
	return n > 0, err
}

func (s *Store) backupOnce() error {
	if s.backedUp {
		return nil
	}
	s.backedUp = true
	if !fileutil.Exists(s.path) {
		return nil
	}
	orig := fileutil.OrigName(s.path)
	slog.Info("backing up existing store", "file", s.path, "backup", orig)
	return fileutil.CopyFile(s.path, orig)
}

// Import writes records into one table per year inside a single
// transaction. Without appendMode an existing year table is an error and
// nothing is written; with appendMode rows are upserted by key.
func (s *Store) Import(ctx context.Context, records []Record, appendMode bool) error {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()
	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Bool("append", appendMode),
	)

	err := s.importRecords(ctx, records, appendMode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *Store) importRecords(ctx context.Context, records []Record, appendMode bool) error {
	if len(records) == 0 {
		return errors.New("no records to import")
	}

	byYear := map[int][]Record{}
	var years []int
	for _, r := range records {
		if _, ok := byYear[r.Year]; !ok {
			years = append(years, r.Year)
		}
		byYear[r.Year] = append(byYear[r.Year], r)
	}
	slices.Sort(years)

	if err := s.backupOnce(); err != nil {
		return fmt.Errorf("failed to back up %s: %w", s.path, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, year := range years {
		exists, err := s.hasTable(ctx, tx, year)
		if err != nil {
			return err
		}
		if exists && !appendMode {
			return fmt.Errorf("%w: %d", ErrTableExists, year)
		}
		if !exists {
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				`CREATE TABLE %s (year INTEGER NOT NULL, key TEXT NOT NULL UNIQUE, html_content TEXT NOT NULL)`,
				tableName(year),
			))
			if err != nil {
				return err
			}
		}

		stmt, err := tx.PrepareNamedContext(ctx, fmt.Sprintf(
			`INSERT INTO %s (year, key, html_content) VALUES (:year, :key, :html_content)
			ON CONFLICT(key) DO UPDATE SET html_content = excluded.html_content`,
			tableName(year),
		))
		if err != nil {
			return err
		}
		for _, r := range byYear[year] {
			if _, err := stmt.ExecContext(ctx, r); err != nil {
				stmt.Close()
				return fmt.Errorf("[%d] failed to insert %s: %w", year, r.Key, err)
			}
		}
		stmt.Close()
		slog.InfoContext(ctx, "wrote season table", "year", year, "records", len(byYear[year]))
	}

	return tx.Commit()
}

func (s *Store) LoadYear(ctx context.Context, year int) ([]Record, error) {
	var records []Record
	err := s.db.SelectContext(ctx, &records, fmt.Sprintf(
		`SELECT year, key, html_content FROM %s ORDER BY rowid`,
		tableName(year),
	))
	if err != nil {
		return nil, fmt.Errorf("[%d] failed to load records: %w", year, err)
	}
	return records, nil
}

// LoadAll loads every season table, oldest season first.
func (s *Store) LoadAll(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "LoadAll")
	defer span.End()

	years, err := s.Tables(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	var all []Record
	for _, y := range years {
		records, err := s.LoadYear(ctx, y)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		all = append(all, records...)
	}
	span.SetAttributes(attribute.Int("records", len(all)))
	return all, nil
}
