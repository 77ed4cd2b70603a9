// Package filters turns a FilterQuery into a parameterized predicate shared
// by the count query and the page query of a listing.
package filters

import (
	"strings"

	"flowershop/internal/models"

	"gorm.io/gorm"
)

// OrderBy is the fixed listing order: newest first, id breaks ties.
const OrderBy = "p.created_at DESC, p.id DESC"

// Clause is one SQL condition with its bound parameters. SQL only ever
// contains placeholders; values travel in Args.
type Clause struct {
	SQL  string
	Args []interface{}
}

// Predicate is an ordered list of clauses joined with AND.
type Predicate struct {
	clauses []Clause
}

type rule struct {
	active   func(q models.FilterQuery) bool
	template string
	params   func(q models.FilterQuery) []interface{}
}

var rules = []rule{
	{
		active:   func(q models.FilterQuery) bool { return q.CategoryID != nil },
		template: "p.category_id = ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{*q.CategoryID} },
	},
	{
		active:   func(q models.FilterQuery) bool { return q.OccasionID != nil },
		template: "p.occasion_id = ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{*q.OccasionID} },
	},
	{
		active:   func(q models.FilterQuery) bool { return strings.TrimSpace(q.Name) != "" },
		template: `LOWER(p.name) LIKE ? ESCAPE '\'`,
		params: func(q models.FilterQuery) []interface{} {
			return []interface{}{"%" + escapeLike(strings.ToLower(strings.TrimSpace(q.Name))) + "%"}
		},
	},
	{
		active:   func(q models.FilterQuery) bool { return q.MinPrice != nil },
		template: "p.price >= ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{*q.MinPrice} },
	},
	{
		active:   func(q models.FilterQuery) bool { return q.MaxPrice != nil },
		template: "p.price <= ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{*q.MaxPrice} },
	},
	{
		active:   func(q models.FilterQuery) bool { return len(q.ColorIDs) > 0 },
		template: "p.color_id IN ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{q.ColorIDs} },
	},
	{
		active:   func(q models.FilterQuery) bool { return len(q.StyleIDs) > 0 },
		template: "p.style_id IN ?",
		params:   func(q models.FilterQuery) []interface{} { return []interface{}{q.StyleIDs} },
	},
}

// Build folds the rule table over q. Absent fields contribute nothing.
func Build(q models.FilterQuery) Predicate {
	var p Predicate
	for _, r := range rules {
		if r.active(q) {
			p.clauses = append(p.clauses, Clause{SQL: r.template, Args: r.params(q)})
		}
	}
	return p
}

// With returns a copy of p with c appended.
func (p Predicate) With(c Clause) Predicate {
	clauses := make([]Clause, 0, len(p.clauses)+1)
	clauses = append(clauses, p.clauses...)
	return Predicate{clauses: append(clauses, c)}
}

// Clauses returns a copy of the clause list.
func (p Predicate) Clauses() []Clause {
	return append([]Clause(nil), p.clauses...)
}

// Empty reports whether the predicate matches every product.
func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// Apply adds every clause to tx as a WHERE condition.
func (p Predicate) Apply(tx *gorm.DB) *gorm.DB {
	for _, c := range p.clauses {
		tx = tx.Where(c.SQL, c.Args...)
	}
	return tx
}

// SQL renders the clauses as one AND-joined condition and its parameters.
func (p Predicate) SQL() (string, []interface{}) {
	parts := make([]string, 0, len(p.clauses))
	var args []interface{}
	for _, c := range p.clauses {
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}
	return strings.Join(parts, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
