package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/pmt/internal/db"
	"github.com/alexanderramin/pmt/internal/domain"
)

var kindTables = map[domain.EntityKind]string{
	domain.KindProject: "projects",
	domain.KindModule:  "modules",
	domain.KindTask:    "tasks",
}

// ResolveIDPrefix expands an id prefix (as shown in listings) to a full id.
// An exact match wins; otherwise exactly one row must start with prefix.
func ResolveIDPrefix(ctx context.Context, q db.DBTX, kind domain.EntityKind, prefix string) (string, error) {
	table, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown entity kind %q", domain.ErrInvalidValue, kind)
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%s id: %w", kind, ErrNotFound)
	}

	pattern := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`).Replace(prefix) + "%"
	rows, err := q.QueryContext(ctx, `SELECT id FROM `+table+` WHERE id LIKE ? ESCAPE '!' ORDER BY id LIMIT 3`, pattern)
	if err != nil {
		return "", fmt.Errorf("resolving %s id: %w", kind, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning %s id: %w", kind, err)
		}
		if id == prefix {
			return id, nil
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating %s ids: %w", kind, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %s: %w", kind, prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %s id prefix %q is ambiguous (%s, %s, ...)", domain.ErrInvalidValue, kind, prefix,
		domain.ShortID(matches[0]), domain.ShortID(matches[1]))
}
