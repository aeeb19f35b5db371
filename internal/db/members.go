package db

import (
	"context"
)

func GetMember(serverID string, profileID string) (Member, error) {
	var m Member
	err := DbPool.QueryRow(context.Background(), `
		SELECT id, role, profile_id, server_id, created_at
		FROM members WHERE server_id = $1 AND profile_id = $2
	`, serverID, profileID).Scan(&m.ID, &m.Role, &m.ProfileID, &m.ServerID, &m.CreatedAt)
	return m, err
}

func GetMemberByID(memberID string) (Member, error) {
	var m Member
	err := DbPool.QueryRow(context.Background(), `
		SELECT id, role, profile_id, server_id, created_at
		FROM members WHERE id = $1
	`, memberID).Scan(&m.ID, &m.Role, &m.ProfileID, &m.ServerID, &m.CreatedAt)
	return m, err
}

func UpdateMemberRole(memberID string, role string) (Member, error) {
	var m Member
	err := DbPool.QueryRow(context.Background(), `
		UPDATE members SET role = $1 WHERE id = $2
		RETURNING id, role, profile_id, server_id, created_at
	`, role, memberID).Scan(&m.ID, &m.Role, &m.ProfileID, &m.ServerID, &m.CreatedAt)
	return m, err
}

func RemoveMember(memberID string) error {
	_, err := DbPool.Exec(context.Background(), `DELETE FROM members WHERE id = $1`, memberID)
	return err
}
