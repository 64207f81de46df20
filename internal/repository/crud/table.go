// Package crud provides a generic bun-backed table accessor shared by the
// domain repositories.
package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/database"
)

var tableTracer = otel.Tracer("github.com/Additional-Code/funerarias/repository/crud")

// ErrNotFound is returned when a row is missing.
var ErrNotFound = errors.New("record not found")

// Filter narrows a select query.
type Filter func(*bun.SelectQuery) *bun.SelectQuery

// Page bounds a list query. Zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// Table encapsulates read/write access for one model type.
type Table[T any] struct {
	writer *bun.DB
	reader *bun.DB
	name   string
}

// New wires a table backed by the configured writer and reader connections.
func New[T any](conns *database.Connections) *Table[T] {
	var zero T
	return &Table[T]{
		writer: conns.Writer,
		reader: conns.Reader,
		name:   conns.Writer.Table(reflectType(&zero)).Name,
	}
}

// Name returns the SQL table name.
func (t *Table[T]) Name() string { return t.name }

// Writer exposes the write connection for custom queries.
func (t *Table[T]) Writer() *bun.DB { return t.writer }

// Reader exposes the read connection for custom queries.
func (t *Table[T]) Reader() *bun.DB { return t.reader }

// Create inserts model using the write connection.
func (t *Table[T]) Create(ctx context.Context, model *T) error {
	if model == nil {
		return fmt.Errorf("nil %s model", t.name)
	}
	ctx, span := t.start(ctx, "Create")
	defer span.End()

	if _, err := t.writer.NewInsert().Model(model).Exec(ctx); err != nil {
		return fail(span, err, "insert failed")
	}
	return nil
}

// CreateTx inserts model inside an existing transaction.
func (t *Table[T]) CreateTx(ctx context.Context, tx bun.IDB, model *T) error {
	_, err := tx.NewInsert().Model(model).Exec(ctx)
	return err
}

// Get fetches a row by primary key using the read connection.
func (t *Table[T]) Get(ctx context.Context, id int64) (*T, error) {
	ctx, span := t.start(ctx, "Get", attribute.Int64("id", id))
	defer span.End()

	model := new(T)
	err := t.reader.NewSelect().Model(model).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fail(span, err, "select failed")
	}
	return model, nil
}

// First returns the first row matching the filters.
func (t *Table[T]) First(ctx context.Context, filters ...Filter) (*T, error) {
	ctx, span := t.start(ctx, "First")
	defer span.End()

	model := new(T)
	q := t.reader.NewSelect().Model(model)
	for _, f := range filters {
		q = f(q)
	}
	err := q.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fail(span, err, "select failed")
	}
	return model, nil
}

// List returns a page of rows matching the filters plus the total match count.
func (t *Table[T]) List(ctx context.Context, page Page, filters ...Filter) ([]T, int, error) {
	ctx, span := t.start(ctx, "List", attribute.Int("limit", page.Limit), attribute.Int("offset", page.Offset))
	defer span.End()

	var rows []T
	q := t.reader.NewSelect().Model(&rows)
	for _, f := range filters {
		q = f(q)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fail(span, err, "list failed")
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, count, nil
}

// Count returns the number of rows matching the filters.
func (t *Table[T]) Count(ctx context.Context, filters ...Filter) (int, error) {
	ctx, span := t.start(ctx, "Count")
	defer span.End()

	q := t.reader.NewSelect().Model((*T)(nil))
	for _, f := range filters {
		q = f(q)
	}
	n, err := q.Count(ctx)
	if err != nil {
		return 0, fail(span, err, "count failed")
	}
	return n, nil
}

// Update overwrites every column of model except created_at.
func (t *Table[T]) Update(ctx context.Context, model *T) error {
	return t.UpdateTx(ctx, t.writer, model)
}

// UpdateTx overwrites model inside an existing transaction or connection.
func (t *Table[T]) UpdateTx(ctx context.Context, db bun.IDB, model *T) error {
	if model == nil {
		return fmt.Errorf("nil %s model", t.name)
	}
	ctx, span := t.start(ctx, "Update")
	defer span.End()

	res, err := db.NewUpdate().Model(model).WherePK().ExcludeColumn("created_at").Exec(ctx)
	if err != nil {
		return fail(span, err, "update failed")
	}
	return checkAffected(span, res)
}

// UpdateColumns writes only the named columns of model.
func (t *Table[T]) UpdateColumns(ctx context.Context, model *T, columns ...string) error {
	ctx, span := t.start(ctx, "UpdateColumns")
	defer span.End()

	res, err := t.writer.NewUpdate().Model(model).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return fail(span, err, "update failed")
	}
	return checkAffected(span, res)
}

// Delete removes a row by primary key.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	ctx, span := t.start(ctx, "Delete", attribute.Int64("id", id))
	defer span.End()

	res, err := t.writer.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fail(span, err, "delete failed")
	}
	return checkAffected(span, res)
}

// RunInTx executes fn inside a write transaction.
func (t *Table[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return t.writer.RunInTx(ctx, nil, fn)
}

func (t *Table[T]) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.table", t.name))
	return tableTracer.Start(ctx, "Table."+op, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

func checkAffected(span trace.Span, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fail(span, err, "rows affected")
	}
	if n == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// IsPostgres reports whether db speaks the Postgres dialect.
func IsPostgres(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.PG
}

// Owned fetches a row by id that belongs to providerID.
func (t *Table[T]) Owned(ctx context.Context, providerID, id int64) (*T, error) {
	return t.First(ctx, Eq("id", id), Eq("provider_id", providerID))
}

// DeleteOwned removes a row by id only when it belongs to providerID.
func (t *Table[T]) DeleteOwned(ctx context.Context, providerID, id int64) error {
	ctx, span := t.start(ctx, "DeleteOwned", attribute.Int64("id", id), attribute.Int64("provider.id", providerID))
	defer span.End()

	res, err := t.writer.NewDelete().Model((*T)(nil)).
		Where("id = ?", id).
		Where("provider_id = ?", providerID).
		Exec(ctx)
	if err != nil {
		return fail(span, err, "delete failed")
	}
	return checkAffected(span, res)
}
