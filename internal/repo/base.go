package repo

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Search adds a case-insensitive substring match over the given columns.
// An empty term leaves the query untouched.
func Search(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// Page applies offset and limit after normalising them.
func Page(query *gorm.DB, params pagination.Params) *gorm.DB {
	params = params.Normalize()
	return query.Offset(params.Skip).Limit(params.Limit)
}

// Sort describes an ordering requested by a caller.
type Sort struct {
	Field string
	Desc  bool
}

// Order applies sort when its field is whitelisted, falling back to def.
// A stable id tiebreaker is always appended.
func Order(query *gorm.DB, sort Sort, allowed map[string]string, def Sort) *gorm.DB {
	col, ok := allowed[sort.Field]
	if !ok {
		col, ok = allowed[def.Field]
		sort = def
	}
	if !ok {
		return query.Order("id")
	}
	dir := " ASC"
	if sort.Desc {
		dir = " DESC"
	}
	return query.Order(col + dir).Order("id" + dir)
}

// ParseSortOrder reports whether the textual order means descending.
func ParseSortOrder(order string, defDesc bool) bool {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc":
		return false
	case "desc":
		return true
	default:
		return defDesc
	}
}
