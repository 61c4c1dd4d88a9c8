// ABOUTME: Pure account list operations used by the controller.
// ABOUTME: Switching promotes an account and demotes the current user.
package store

import (
	"github.com/harperreed/care4u/internal/models"
)

// SwitchAccount makes the first account with the username active.
// The previous user is prepended to the returned accounts and every entry
// carrying the target username is dropped. When nothing matches, the inputs
// are returned unchanged with ok false.
func SwitchAccount(user models.UserProfile, accounts []models.UserProfile, username string) (models.UserProfile, []models.UserProfile, bool) {
	idx := -1
	for i, a := range accounts {
		if a.Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		return user, accounts, false
	}

	next := accounts[idx].Clone()
	rest := make([]models.UserProfile, 0, len(accounts))
	rest = append(rest, user.Clone())
	for _, a := range accounts {
		if a.Username != username {
			rest = append(rest, a.Clone())
		}
	}
	return next, rest, true
}

// AddAccount appends a profile to the inactive accounts.
func AddAccount(accounts []models.UserProfile, p models.UserProfile) []models.UserProfile {
	out := make([]models.UserProfile, 0, len(accounts)+1)
	out = append(out, accounts...)
	return append(out, p.Clone())
}
