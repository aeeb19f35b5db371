package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const MessageBatchSize = 25

// ListMessages returns up to MessageBatchSize messages for the channel,
// newest first. cursor is the id of the oldest message from the previous
// page; empty cursor starts at the newest message.
func ListMessages(channelID string, cursor string) ([]Message, string, error) {
	ctx := context.Background()
	var rows pgx.Rows
	var err error
	if cursor == "" {
		rows, err = DbPool.Query(ctx, `
			SELECT ms.id, ms.content, ms.file_url, ms.deleted, ms.edited, ms.member_id, ms.channel_id,
				ms.created_at, ms.updated_at, p.name, p.image_url, m.role
			FROM messages ms
			JOIN members m ON m.id = ms.member_id
			JOIN profiles p ON p.id = m.profile_id
			WHERE ms.channel_id = $1
			ORDER BY ms.created_at DESC
			LIMIT $2
		`, channelID, MessageBatchSize)
	} else {
		rows, err = DbPool.Query(ctx, `
			SELECT ms.id, ms.content, ms.file_url, ms.deleted, ms.edited, ms.member_id, ms.channel_id,
				ms.created_at, ms.updated_at, p.name, p.image_url, m.role
			FROM messages ms
			JOIN members m ON m.id = ms.member_id
			JOIN profiles p ON p.id = m.profile_id
			WHERE ms.channel_id = $1
				AND ms.created_at < (SELECT created_at FROM messages WHERE id = $2)
			ORDER BY ms.created_at DESC
			LIMIT $3
		`, channelID, cursor, MessageBatchSize)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var ms Message
		err := rows.Scan(&ms.ID, &ms.Content, &ms.FileURL, &ms.Deleted, &ms.Edited, &ms.MemberID,
			&ms.ChannelID, &ms.CreatedAt, &ms.UpdatedAt, &ms.AuthorName, &ms.AuthorImage, &ms.AuthorRole)
		if err != nil {
			return nil, "", err
		}
		if ms.Deleted {
			ms.Content = "This message has been deleted."
			ms.FileURL = ""
		}
		messages = append(messages, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(messages) == MessageBatchSize {
		nextCursor = messages[len(messages)-1].ID
	}
	return messages, nextCursor, nil
}

func CreateMessage(channelID string, memberID string, content string, fileURL string) (Message, error) {
	var ms Message
	err := DbPool.QueryRow(context.Background(), `
		INSERT INTO messages (id, content, file_url, member_id, channel_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, content, file_url, deleted, edited, member_id, channel_id, created_at, updated_at
	`, uuid.NewString(), content, fileURL, memberID, channelID).
		Scan(&ms.ID, &ms.Content, &ms.FileURL, &ms.Deleted, &ms.Edited, &ms.MemberID, &ms.ChannelID,
			&ms.CreatedAt, &ms.UpdatedAt)
	return ms, err
}

func GetMessage(messageID string) (Message, error) {
	var ms Message
	err := DbPool.QueryRow(context.Background(), `
		SELECT id, content, file_url, deleted, edited, member_id, channel_id, created_at, updated_at
		FROM messages WHERE id = $1
	`, messageID).Scan(&ms.ID, &ms.Content, &ms.FileURL, &ms.Deleted, &ms.Edited, &ms.MemberID,
		&ms.ChannelID, &ms.CreatedAt, &ms.UpdatedAt)
	return ms, err
}

func UpdateMessageContent(messageID string, content string) (Message, error) {
	var ms Message
	err := DbPool.QueryRow(context.Background(), `
		UPDATE messages SET content = $1, edited = TRUE, updated_at = NOW()
		WHERE id = $2 AND deleted = FALSE
		RETURNING id, content, file_url, deleted, edited, member_id, channel_id, created_at, updated_at
	`, content, messageID).Scan(&ms.ID, &ms.Content, &ms.FileURL, &ms.Deleted, &ms.Edited,
		&ms.MemberID, &ms.ChannelID, &ms.CreatedAt, &ms.UpdatedAt)
	return ms, err
}

// SoftDeleteMessage blanks the message instead of removing the row so
// the channel history keeps its shape.
func SoftDeleteMessage(messageID string) error {
	_, err := DbPool.Exec(context.Background(), `
		UPDATE messages SET deleted = TRUE, content = '', file_url = '', updated_at = NOW()
		WHERE id = $1
	`, messageID)
	return err
}

// UpsertCollectedMessage inserts a message imported from Discord, keyed
// by the Discord message id for dedup across collector runs. Returns the
// platform message id and whether a new row was inserted.
func UpsertCollectedMessage(ctx context.Context, discordMessageID string, channelID string, memberID string, content string, fileURL string) (string, bool, error) {
	var id string
	err := DbPool.QueryRow(ctx, `
		INSERT INTO messages (id, content, file_url, member_id, channel_id, discord_message_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (discord_message_id) DO NOTHING
		RETURNING id
	`, uuid.NewString(), content, fileURL, memberID, channelID, discordMessageID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// already imported on a previous run
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ServerOwnerMember resolves the ADMIN membership of the server owner for
// a channel, used to attribute collector-imported messages.
func ServerOwnerMember(ctx context.Context, channelID string) (Member, error) {
	var m Member
	err := DbPool.QueryRow(ctx, `
		SELECT m.id, m.role, m.profile_id, m.server_id, m.created_at
		FROM channels c
		JOIN servers s ON s.id = c.server_id
		JOIN members m ON m.server_id = s.id AND m.profile_id = s.profile_id
		WHERE c.id = $1
	`, channelID).Scan(&m.ID, &m.Role, &m.ProfileID, &m.ServerID, &m.CreatedAt)
	return m, err
}

func GetChannelWatermark(ctx context.Context, discordChannelID string) (string, error) {
	var last string
	err := DbPool.QueryRow(ctx, `
		SELECT last_message_id FROM channel_watermarks WHERE discord_channel_id = $1
	`, discordChannelID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last, nil
}

func SetChannelWatermark(ctx context.Context, discordChannelID string, lastMessageID string) error {
	_, err := DbPool.Exec(ctx, `
		INSERT INTO channel_watermarks (discord_channel_id, last_message_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (discord_channel_id) DO UPDATE
		SET last_message_id = EXCLUDED.last_message_id, updated_at = NOW()
	`, discordChannelID, lastMessageID)
	return err
}
