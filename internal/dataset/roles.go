package dataset

import (
	"errors"
	"strings"

	"review-insights-go/internal/config"
)

var (
	// ErrEmptyTable signals a table with no rows or columns.
	ErrEmptyTable = errors.New("table has no rows or columns")
	// ErrMissingReviewColumn signals that the mandatory review role is
	// unmapped or points at a column the table does not have.
	ErrMissingReviewColumn = errors.New("review column is not mapped")
)

// Normalize canonicalizes a header for comparison: surrounding and internal
// whitespace removed, lower-cased. Empty input normalizes to "".
func Normalize(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), ""))
}

// RoleMapping associates each role with a column name, or "" when the role
// is unmapped.
type RoleMapping map[config.Role]string

// Column returns the mapped column for a role, "" when unmapped.
func (m RoleMapping) Column(r config.Role) string {
	return m[r]
}

// Override returns a copy of the mapping with the given per-role overrides
// applied. An override naming a column the table does not have leaves the
// role unmapped; empty overrides are ignored. The receiver is not mutated.
func (m RoleMapping) Override(t *Table, overrides map[config.Role]string) RoleMapping {
	out := make(RoleMapping, len(m))
	for r, c := range m {
		out[r] = c
	}
	for r, c := range overrides {
		if c == "" {
			continue
		}
		if t != nil && t.HasColumn(c) {
			out[r] = c
		} else {
			out[r] = ""
		}
	}
	return out
}

// Resolve maps each role in the candidate table to the first table header
// whose normalized form equals one of the role's candidates. Candidate order
// wins over header order: the scan stops at the first candidate with any
// match. Roles without a match map to "". For a nil or empty table every
// role is unmapped.
func Resolve(t *Table, candidates []config.RoleCandidates) RoleMapping {
	m := make(RoleMapping, len(candidates))
	if t == nil || t.Rows() == 0 || len(t.Headers()) == 0 {
		for _, rc := range candidates {
			m[rc.Role] = ""
		}
		return m
	}

	headers := t.Headers()
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = Normalize(h)
	}

	for _, rc := range candidates {
		matched := ""
		for _, cand := range rc.Headers {
			n := Normalize(cand)
			for i := range headers {
				if normalized[i] == n {
					matched = headers[i]
					break
				}
			}
			if matched != "" {
				break
			}
		}
		m[rc.Role] = matched
	}
	return m
}

// Project returns a new table restricted to the mapped columns, keeping all
// rows. The review role is mandatory: a mapping without a present review
// column fails with ErrMissingReviewColumn. Columns are selected in
// canonical role order and deduplicated by name.
func Project(t *Table, m RoleMapping) (*Table, error) {
	if t == nil || t.Rows() == 0 || len(t.Headers()) == 0 {
		return nil, ErrEmptyTable
	}
	review := m[config.RoleReview]
	if review == "" || !t.HasColumn(review) {
		return nil, ErrMissingReviewColumn
	}

	seen := make(map[string]bool)
	var cols []Column
	for _, role := range config.Roles {
		name := m[role]
		if name == "" || seen[name] || !t.HasColumn(name) {
			continue
		}
		seen[name] = true
		cells, _ := t.Column(name)
		copied := make([]string, len(cells))
		copy(copied, cells)
		cols = append(cols, Column{Name: name, Cells: copied})
	}
	if len(cols) == 0 {
		return nil, ErrMissingReviewColumn
	}
	return NewTable(cols), nil
}
