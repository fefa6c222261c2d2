package record

import (
	"strings"
)

// Query is a search predicate evaluated against the record tags. The nil
// query matches all of the records.
type Query interface {
	Match(tags map[string]string) bool
	String() string
}

// Matches reports if the tags match the query where the nil query matches
// everything.
func Matches(q Query, tags map[string]string) bool {
	return q == nil || q.Match(tags)
}

type eq struct {
	field, value string
}

// Eq is the field equality predicate.
func Eq(field, value string) Query {
	return eq{field: field, value: value}
}

func (q eq) Match(tags map[string]string) bool {
	v, ok := tags[q.field]
	return ok && v == q.value
}

func (q eq) String() string {
	return q.field + "=" + q.value
}

type and []Query

// And is the conjunction of the queries. The empty And matches all.
func And(qs ...Query) Query {
	return and(qs)
}

func (q and) Match(tags map[string]string) bool {
	for _, sub := range q {
		if !Matches(sub, tags) {
			return false
		}
	}
	return true
}

func (q and) String() string {
	return join(q, " AND ")
}

type or []Query

// Or is the disjunction of the queries. The empty Or matches nothing.
func Or(qs ...Query) Query {
	return or(qs)
}

func (q or) Match(tags map[string]string) bool {
	for _, sub := range q {
		if Matches(sub, tags) {
			return true
		}
	}
	return false
}

func (q or) String() string {
	return join(q, " OR ")
}

type not struct {
	q Query
}

func Not(q Query) Query {
	return not{q: q}
}

func (q not) Match(tags map[string]string) bool {
	return !Matches(q.q, tags)
}

func (q not) String() string {
	return "NOT " + str(q.q)
}

func join(qs []Query, sep string) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = str(q)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func str(q Query) string {
	if q == nil {
		return "*"
	}
	return q.String()
}
