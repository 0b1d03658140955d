package repo

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrorConstraint - запись нарушает ограничения таблицы (CHECK/NOT NULL)
var ErrorConstraint = errors.New("constraint violation")

const versionColumns = `id, name, priority, summary, start_date, end_date,
	requirement_complete_date, development_complete_date, testing_complete_date,
	status, progress, created_at, updated_at`

type PostgresRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo { // Конструктор
	return &PostgresRepo{
		pool: pool,
	}
}

// Migrate применяет все *.up.sql миграции по порядку имен файлов.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]model.Version, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+versionColumns+` FROM versions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make([]model.Version, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (model.Version, error) {
	v, err := scanVersion(r.pool.QueryRow(ctx, `
		SELECT `+versionColumns+`
		FROM versions
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return v, ErrorNotFound
	}
	return v, err
}

func (r *PostgresRepo) Create(ctx context.Context, in model.VersionInput) (model.Version, error) {
	v, err := scanVersion(r.pool.QueryRow(ctx, `
		INSERT INTO versions (name, priority, summary, start_date, end_date,
			requirement_complete_date, development_complete_date, testing_complete_date,
			status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_DATE, CURRENT_DATE)
		RETURNING `+versionColumns,
		inputArgs(in)...,
	))
	return v, r.mapError(err)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error) {
	args := append(inputArgs(in), id)
	v, err := scanVersion(r.pool.QueryRow(ctx, `
		UPDATE versions
		SET name = $1, priority = $2, summary = $3, start_date = $4, end_date = $5,
			requirement_complete_date = $6, development_complete_date = $7, testing_complete_date = $8,
			status = $9, progress = $10, updated_at = CURRENT_DATE
		WHERE id = $11
		RETURNING `+versionColumns,
		args...,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return v, ErrorNotFound
	}
	return v, r.mapError(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM versions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func inputArgs(in model.VersionInput) []any {
	return []any{
		in.Name, int(in.Priority), in.Summary,
		pgDate(in.StartDate), pgDate(in.EndDate),
		pgDate(in.RequirementCompleteDate), pgDate(in.DevelopmentCompleteDate), pgDate(in.TestingCompleteDate),
		string(in.Status), in.Progress,
	}
}

func pgDate(d model.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: !d.IsZero()}
}

func fromPgDate(d pgtype.Date) model.Date {
	if !d.Valid {
		return model.Date{}
	}
	return model.DateOf(d.Time)
}

func scanVersion(row pgx.Row) (model.Version, error) {
	var (
		v                          model.Version
		priority                   int
		status                     string
		start, end, req, dev, test pgtype.Date
		createdAt, updatedAt       pgtype.Date
	)
	err := row.Scan(
		&v.ID, &v.Name, &priority, &v.Summary, &start, &end,
		&req, &dev, &test,
		&status, &v.Progress, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Version{}, err
	}

	v.Priority = model.Priority(priority)
	v.Status = model.Status(status)
	v.StartDate, v.EndDate = fromPgDate(start), fromPgDate(end)
	v.RequirementCompleteDate = fromPgDate(req)
	v.DevelopmentCompleteDate = fromPgDate(dev)
	v.TestingCompleteDate = fromPgDate(test)
	v.CreatedAt, v.UpdatedAt = fromPgDate(createdAt), fromPgDate(updatedAt)
	return v, nil
}

func (r *PostgresRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23514": // not_null_violation, check_violation
			return fmt.Errorf("%w: %s", ErrorConstraint, pgErr.ConstraintName)
		}
	}
	return err
}
