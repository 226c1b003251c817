package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserDirectory resolves notification recipients from the users table.
// It lives here so notifications never import auth.
type UserDirectory struct {
	repo Repository
}

func NewUserDirectory(repo Repository) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// Lookup returns the address and display name of userID.
func (d *UserDirectory) Lookup(ctx context.Context, userID uuid.UUID) (email, name string, err error) {
	user, err := d.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}
	return user.Email, name, nil
}
