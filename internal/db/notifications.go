package db

import (
	"context"
	"log"

	"github.com/google/uuid"
)

const (
	NotificationNewMessage = "NEW_MESSAGE"
	NotificationSignal     = "SIGNAL"
)

// FanOutMessageNotifications creates one notification row per server
// member other than the author. Failures are logged, not returned, so a
// notification hiccup never fails the message write.
func FanOutMessageNotifications(ctx context.Context, notifType string, title string, body string, serverID string, channelID string, messageID string, authorMemberID string) {
	_, err := DbPool.Exec(ctx, `
		INSERT INTO notifications (id, profile_id, type, title, body, server_id, channel_id, message_id)
		SELECT gen_random_uuid()::text, m.profile_id, $1, $2, $3, $4, $5, $6
		FROM members m
		WHERE m.server_id = $4 AND m.id != $7
	`, notifType, title, body, serverID, channelID, messageID, authorMemberID)
	if err != nil {
		log.Printf("Error fanning out notifications for message %s: %v", messageID, err)
	}
}

func CreateNotification(profileID string, notifType string, title string, body string) error {
	_, err := DbPool.Exec(context.Background(), `
		INSERT INTO notifications (id, profile_id, type, title, body)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), profileID, notifType, title, body)
	return err
}

func ListNotifications(profileID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := DbPool.Query(context.Background(), `
		SELECT id, profile_id, type, title, body, server_id, channel_id, message_id, read, created_at
		FROM notifications
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.ProfileID, &n.Type, &n.Title, &n.Body, &n.ServerID, &n.ChannelID,
			&n.MessageID, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func MarkNotificationRead(notificationID string, profileID string) error {
	_, err := DbPool.Exec(context.Background(), `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND profile_id = $2
	`, notificationID, profileID)
	return err
}

func MarkAllNotificationsRead(profileID string) error {
	_, err := DbPool.Exec(context.Background(), `
		UPDATE notifications SET read = TRUE WHERE profile_id = $1 AND read = FALSE
	`, profileID)
	return err
}

func UnreadNotificationCount(profileID string) (int, error) {
	var count int
	err := DbPool.QueryRow(context.Background(), `
		SELECT COUNT(id) FROM notifications WHERE profile_id = $1 AND read = FALSE
	`, profileID).Scan(&count)
	return count, err
}
