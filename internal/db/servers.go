package db

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

var (
	ErrNotMember      = errors.New("not a member of this server")
	ErrForbidden      = errors.New("insufficient role")
	ErrOwnerLeave     = errors.New("server owner cannot leave")
	ErrGeneralChannel = errors.New("the general channel cannot be modified")
)

// CreateServer creates the server, its default general channel and the
// creator's ADMIN membership in one transaction.
func CreateServer(profileID string, name string, imageURL string) (Server, error) {
	ctx := context.Background()
	tx, err := DbPool.Begin(ctx)
	if err != nil {
		return Server{}, err
	}
	defer tx.Rollback(ctx)

	var s Server
	err = tx.QueryRow(ctx, `
		INSERT INTO servers (id, name, image_url, invite_code, profile_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, image_url, invite_code, profile_id, created_at
	`, uuid.NewString(), name, imageURL, uuid.NewString(), profileID).
		Scan(&s.ID, &s.Name, &s.ImageURL, &s.InviteCode, &s.ProfileID, &s.CreatedAt)
	if err != nil {
		return Server{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO channels (id, server_id, name, type, profile_id)
		VALUES ($1, $2, 'general', 'TEXT', $3)
	`, uuid.NewString(), s.ID, profileID)
	if err != nil {
		return Server{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO members (id, role, profile_id, server_id)
		VALUES ($1, 'ADMIN', $2, $3)
	`, uuid.NewString(), profileID, s.ID)
	if err != nil {
		return Server{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Server{}, err
	}
	return s, nil
}

func GetServersForProfile(profileID string) ([]Server, error) {
	rows, err := DbPool.Query(context.Background(), `
		SELECT s.id, s.name, s.image_url, s.invite_code, s.profile_id, s.created_at
		FROM servers s
		JOIN members m ON m.server_id = s.id
		WHERE m.profile_id = $1
		ORDER BY s.created_at
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var servers []Server
	for rows.Next() {
		var s Server
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageURL, &s.InviteCode, &s.ProfileID, &s.CreatedAt); err != nil {
			log.Printf("Error scanning server row: %v", err)
			return nil, err
		}
		servers = append(servers, s)
	}
	return servers, rows.Err()
}

func GetServerDetails(serverID string) (ServerDetails, error) {
	ctx := context.Background()
	var d ServerDetails
	err := DbPool.QueryRow(ctx, `
		SELECT id, name, image_url, invite_code, profile_id, created_at FROM servers WHERE id = $1
	`, serverID).Scan(&d.ID, &d.Name, &d.ImageURL, &d.InviteCode, &d.ProfileID, &d.CreatedAt)
	if err != nil {
		return ServerDetails{}, err
	}

	chRows, err := DbPool.Query(ctx, `
		SELECT id, server_id, name, type, profile_id, created_at
		FROM channels WHERE server_id = $1 ORDER BY created_at
	`, serverID)
	if err != nil {
		return ServerDetails{}, err
	}
	defer chRows.Close()
	for chRows.Next() {
		var c Channel
		if err := chRows.Scan(&c.ID, &c.ServerID, &c.Name, &c.Type, &c.ProfileID, &c.CreatedAt); err != nil {
			return ServerDetails{}, err
		}
		d.Channels = append(d.Channels, c)
	}

	memRows, err := DbPool.Query(ctx, `
		SELECT m.id, m.role, m.profile_id, m.server_id, m.created_at, p.name, p.image_url
		FROM members m
		JOIN profiles p ON p.id = m.profile_id
		WHERE m.server_id = $1
		ORDER BY m.created_at
	`, serverID)
	if err != nil {
		return ServerDetails{}, err
	}
	defer memRows.Close()
	for memRows.Next() {
		var m Member
		if err := memRows.Scan(&m.ID, &m.Role, &m.ProfileID, &m.ServerID, &m.CreatedAt, &m.ProfileName, &m.ProfileImage); err != nil {
			return ServerDetails{}, err
		}
		d.Members = append(d.Members, m)
	}
	return d, nil
}

func UpdateServer(serverID string, name string, imageURL string) (Server, error) {
	var s Server
	err := DbPool.QueryRow(context.Background(), `
		UPDATE servers SET name = $1, image_url = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, image_url, invite_code, profile_id, created_at
	`, name, imageURL, serverID).
		Scan(&s.ID, &s.Name, &s.ImageURL, &s.InviteCode, &s.ProfileID, &s.CreatedAt)
	return s, err
}

func RotateInviteCode(serverID string) (string, error) {
	newCode := uuid.NewString()
	_, err := DbPool.Exec(context.Background(), `
		UPDATE servers SET invite_code = $1, updated_at = NOW() WHERE id = $2
	`, newCode, serverID)
	if err != nil {
		return "", err
	}
	return newCode, nil
}

// JoinServerByInvite adds the profile as a GUEST member. Joining a
// server you already belong to is a no-op that returns the server.
func JoinServerByInvite(inviteCode string, profileID string) (Server, error) {
	ctx := context.Background()
	var s Server
	err := DbPool.QueryRow(ctx, `
		SELECT id, name, image_url, invite_code, profile_id, created_at
		FROM servers WHERE invite_code = $1
	`, inviteCode).Scan(&s.ID, &s.Name, &s.ImageURL, &s.InviteCode, &s.ProfileID, &s.CreatedAt)
	if err != nil {
		return Server{}, err
	}

	_, err = DbPool.Exec(ctx, `
		INSERT INTO members (id, role, profile_id, server_id)
		VALUES ($1, 'GUEST', $2, $3)
		ON CONFLICT (profile_id, server_id) DO NOTHING
	`, uuid.NewString(), profileID, s.ID)
	if err != nil {
		return Server{}, err
	}
	return s, nil
}

func LeaveServer(serverID string, profileID string) error {
	ctx := context.Background()
	var ownerID string
	err := DbPool.QueryRow(ctx, `SELECT profile_id FROM servers WHERE id = $1`, serverID).Scan(&ownerID)
	if err != nil {
		return err
	}
	if ownerID == profileID {
		return ErrOwnerLeave
	}

	tag, err := DbPool.Exec(ctx, `
		DELETE FROM members WHERE server_id = $1 AND profile_id = $2
	`, serverID, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}
	return nil
}

func DeleteServer(serverID string, profileID string) error {
	tag, err := DbPool.Exec(context.Background(), `
		DELETE FROM servers WHERE id = $1 AND profile_id = $2
	`, serverID, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrForbidden
	}
	return nil
}
