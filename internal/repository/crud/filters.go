package crud

import (
	"reflect"
	"strings"

	"github.com/uptrace/bun"
)

func reflectType(v any) reflect.Type {
	return reflect.TypeOf(v).Elem()
}

// Eq filters column = value.
func Eq(column string, value any) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}

// EqIf applies Eq only when value is not the zero value of its type.
func EqIf(column string, value any) Filter {
	if value == nil || reflect.ValueOf(value).IsZero() {
		return Noop
	}
	return Eq(column, value)
}

// In filters column IN (values).
func In[V any](column string, values []V) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? IN (?)", bun.Ident(column), bun.In(values))
	}
}

// Search matches a case-insensitive substring against any of the columns.
func Search(text string, columns ...string) Filter {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len(columns) == 0 {
		return Noop
	}
	pattern := "%" + escapeLike(text) + "%"
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, c := range columns {
				q = q.WhereOr("LOWER(?) LIKE ?", bun.Ident(c), pattern)
			}
			return q
		})
	}
}

// OrderBy sorts by the given expression, e.g. "created_at DESC".
func OrderBy(expr string) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(expr)
	}
}

// Noop leaves the query untouched.
func Noop(q *bun.SelectQuery) *bun.SelectQuery { return q }

func escapeLike(s string) string {
	r := strings.NewReplacer("%", "", "_", "")
	return r.Replace(s)
}
