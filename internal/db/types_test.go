package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name string
		role string
		min  string
		want bool
	}{
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"admin meets moderator", RoleAdmin, RoleModerator, true},
		{"admin meets guest", RoleAdmin, RoleGuest, true},
		{"moderator meets moderator", RoleModerator, RoleModerator, true},
		{"moderator fails admin", RoleModerator, RoleAdmin, false},
		{"guest fails moderator", RoleGuest, RoleModerator, false},
		{"guest meets guest", RoleGuest, RoleGuest, true},
		{"unknown role fails guest", "SUPERUSER", RoleGuest, false},
		{"empty role fails guest", "", RoleGuest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleAtLeast(tt.role, tt.min))
		})
	}
}

func TestSubscriptionActive(t *testing.T) {
	future := time.Now().Add(72 * time.Hour)
	past := time.Now().Add(-72 * time.Hour)
	justLapsed := time.Now().Add(-1 * time.Hour)

	tests := []struct {
		name      string
		status    string
		periodEnd *time.Time
		want      bool
	}{
		{"active with future period end", "active", &future, true},
		{"trialing with future period end", "trialing", &future, true},
		{"active but long expired", "active", &past, false},
		{"active within grace window", "active", &justLapsed, true},
		{"canceled", "canceled", &future, false},
		{"past_due", "past_due", &future, false},
		{"empty status", "", &future, false},
		{"active without period end", "active", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubscriptionActive(tt.status, tt.periodEnd))
		})
	}
}
