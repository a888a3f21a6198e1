package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// DBTX is the subset of pgxpool.Pool used by repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrInvalidID
	}
	return nil
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		err = apperrors.ErrRecordNotFound
	}
	return oops.With("operation", op).Wrap(err)
}

// listSpec describes how a table is searched, filtered and sorted.
type listSpec struct {
	table       string
	columns     string
	searchCols  []string
	dateCol     string
	sortColumns map[string]string
}

// build returns the page query, the count query and the shared filter args.
// The page query takes two extra args (limit, offset) appended after the filter args.
func (s listSpec) build(opts domain.ListOptions) (string, string, []any) {
	var (
		where []string
		args  []any
	)

	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		ph := fmt.Sprintf("$%d", len(args))
		ors := make([]string, 0, len(s.searchCols))
		for _, col := range s.searchCols {
			ors = append(ors, fmt.Sprintf("%s ILIKE %s", col, ph))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if opts.StartDate != nil {
		args = append(args, *opts.StartDate)
		where = append(where, fmt.Sprintf("%s >= $%d", s.dateCol, len(args)))
	}
	if opts.EndDate != nil {
		args = append(args, *opts.EndDate)
		where = append(where, fmt.Sprintf("%s <= $%d", s.dateCol, len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	sortCol, ok := s.sortColumns[opts.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if opts.SortOrder == domain.SortAsc {
		order = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
		s.columns, s.table, whereSQL, sortCol, order, order, len(args)+1, len(args)+2)
	count := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, whereSQL)
	return query, count, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func listPage[T any](ctx context.Context, db DBTX, op string, spec listSpec, opts domain.ListOptions, scan func(pgx.Row) (T, error)) (*domain.Page[T], error) {
	query, countQuery, args := spec.build(opts)

	var total int64
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, wrapErr(op, err)
	}

	rows, err := db.Query(ctx, query, append(args, opts.Limit, opts.Offset())...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	items := make([]T, 0, opts.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return &domain.Page[T]{Items: items, Total: total}, nil
}
