package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/db"
	"github.com/tradersutopia/tradersutopia/internal/search"
)

func listMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		channel_id := c.Param("channelID")

		channel, err := db.GetChannel(channel_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
			return
		}
		if _, err := db.GetMember(channel.ServerID, profile.ID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this server"})
			return
		}

		messages, nextCursor, err := db.ListMessages(channel_id, c.Query("cursor"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages, "next_cursor": nextCursor})
	}
}

func createMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		channel_id := c.Param("channelID")

		channel, err := db.GetChannel(channel_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
			return
		}
		member, err := db.GetMember(channel.ServerID, profile.ID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this server"})
			return
		}

		var req CreateMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(req.Content)
		if content == "" && req.FileURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is empty"})
			return
		}

		message, err := db.CreateMessage(channel_id, member.ID, content, req.FileURL)
		if err != nil {
			log.Printf("Error creating message: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating message"})
			return
		}

		go db.FanOutMessageNotifications(context.Background(), db.NotificationNewMessage,
			"New message in #"+channel.Name, truncate(content, 120),
			channel.ServerID, channel_id, message.ID, member.ID)
		go search.EmbedMessage(context.Background(), message.ID, channel.ServerID, content)

		c.JSON(http.StatusCreated, message)
	}
}

func editMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		message_id := c.Param("messageID")

		message, err := db.GetMessage(message_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		if message.Deleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot edit a deleted message"})
			return
		}

		member, err := db.GetMemberByID(message.MemberID)
		if err != nil || member.ProfileID != profile.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit a message"})
			return
		}

		var req EditMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(req.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is empty"})
			return
		}

		updated, err := db.UpdateMessageContent(message_id, content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating message"})
			return
		}
		go search.EmbedMessage(context.Background(), updated.ID, member.ServerID, content)
		c.JSON(http.StatusOK, updated)
	}
}

func deleteMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		message_id := c.Param("messageID")

		message, err := db.GetMessage(message_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}

		author, err := db.GetMemberByID(message.MemberID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading message author"})
			return
		}

		// author, or a moderator/admin of the same server
		allowed := author.ProfileID == profile.ID
		if !allowed {
			actor, err := db.GetMember(author.ServerID, profile.ID)
			allowed = err == nil && db.RoleAtLeast(actor.Role, db.RoleModerator)
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete this message"})
			return
		}

		if err := db.SoftDeleteMessage(message_id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting message"})
			return
		}
		go search.DeleteEmbedding(context.Background(), message_id)
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

func searchServerMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
			return
		}

		if _, err := db.GetMember(server_id, profile.ID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this server"})
			return
		}

		results, err := search.SearchMessages(c.Request.Context(), server_id, query, 10)
		if err != nil {
			log.Printf("Error searching messages: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
