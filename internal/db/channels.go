package db

import (
	"context"

	"github.com/google/uuid"
)

func CreateChannel(serverID string, name string, channelType string, profileID string) (Channel, error) {
	var c Channel
	err := DbPool.QueryRow(context.Background(), `
		INSERT INTO channels (id, server_id, name, type, profile_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, server_id, name, type, profile_id, created_at
	`, uuid.NewString(), serverID, name, channelType, profileID).
		Scan(&c.ID, &c.ServerID, &c.Name, &c.Type, &c.ProfileID, &c.CreatedAt)
	return c, err
}

func GetChannel(channelID string) (Channel, error) {
	var c Channel
	err := DbPool.QueryRow(context.Background(), `
		SELECT id, server_id, name, type, profile_id, created_at
		FROM channels WHERE id = $1
	`, channelID).Scan(&c.ID, &c.ServerID, &c.Name, &c.Type, &c.ProfileID, &c.CreatedAt)
	return c, err
}

func UpdateChannelName(channelID string, name string) (Channel, error) {
	var c Channel
	err := DbPool.QueryRow(context.Background(), `
		UPDATE channels SET name = $1, updated_at = NOW()
		WHERE id = $2 AND name != 'general'
		RETURNING id, server_id, name, type, profile_id, created_at
	`, name, channelID).Scan(&c.ID, &c.ServerID, &c.Name, &c.Type, &c.ProfileID, &c.CreatedAt)
	return c, err
}

func DeleteChannel(channelID string) error {
	_, err := DbPool.Exec(context.Background(), `
		DELETE FROM channels WHERE id = $1 AND name != 'general'
	`, channelID)
	return err
}
