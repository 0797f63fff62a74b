package repository

import (
	"fmt"
	"strings"
)

// filterBuilder collects optional WHERE clauses with positional args.
type filterBuilder struct {
	clauses []string
	args    []any
}

// add appends clause, replacing its "?" with the next $n marker.
func (f *filterBuilder) add(clause string, value any) {
	f.args = append(f.args, value)
	f.clauses = append(f.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(f.args)), 1))
}

func (f *filterBuilder) next() int {
	return len(f.args) + 1
}

func (f *filterBuilder) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(f.clauses, " AND ")
}
