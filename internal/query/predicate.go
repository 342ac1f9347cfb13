// Package query builds the WHERE fragments used by the directory listings.
// Fragments carry their bound arguments; raw input never reaches the SQL text.
package query

import (
	"strings"

	"gorm.io/gorm"
)

type Fragment struct {
	Expr string
	Args []interface{}
}

func (f Fragment) IsZero() bool {
	return f.Expr == ""
}

// Eq scopes a query to an exact column match, e.g. the owner of a listing.
func Eq(column string, value interface{}) Fragment {
	return Fragment{Expr: column + " = ?", Args: []interface{}{value}}
}

// Search builds a case-insensitive partial match ORed across columns. A blank
// or whitespace-only term yields a zero fragment so the caller gets the
// unfiltered scoped set instead of matching on empty wildcards.
func Search(term string, columns ...string) Fragment {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return Fragment{}
	}

	bound := "%" + strings.ToLower(term) + "%"
	exprs := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		exprs[i] = "LOWER(" + column + ") LIKE ?"
		args[i] = bound
	}

	return Fragment{
		Expr: "(" + strings.Join(exprs, " OR ") + ")",
		Args: args,
	}
}

// And joins the non-zero fragments. Zero fragments drop out, so an absent
// search filter never changes the scope predicate.
func And(fragments ...Fragment) Fragment {
	exprs := make([]string, 0, len(fragments))
	args := make([]interface{}, 0)
	for _, f := range fragments {
		if f.IsZero() {
			continue
		}
		exprs = append(exprs, f.Expr)
		args = append(args, f.Args...)
	}
	if len(exprs) == 0 {
		return Fragment{}
	}
	return Fragment{Expr: strings.Join(exprs, " AND "), Args: args}
}

func Apply(db *gorm.DB, f Fragment) *gorm.DB {
	if f.IsZero() {
		return db
	}
	return db.Where(f.Expr, f.Args...)
}
