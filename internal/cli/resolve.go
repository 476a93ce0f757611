package cli

import (
	"context"

	"github.com/alexanderramin/pmt/internal/domain"
)

// resolveID expands an id or unique id prefix, as shown in listings.
func resolveID(ctx context.Context, app *App, kind domain.EntityKind, ref string) (string, error) {
	return app.Hierarchy.ResolveID(ctx, kind, ref)
}

// resolveUserID accepts a user id or username. Empty stays empty.
func resolveUserID(ctx context.Context, app *App, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	u, err := app.Users.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// usernames maps every user id to its username for display.
func usernames(ctx context.Context, app *App) (map[string]string, error) {
	users, err := app.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out, nil
}

