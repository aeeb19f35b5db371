package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

func createChannel() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		member, err := db.GetMember(server_id, profile.ID)
		if err != nil || !db.RoleAtLeast(member.Role, db.RoleModerator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator role required"})
			return
		}

		var req CreateChannelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || name == "general" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel name"})
			return
		}
		channelType := req.Type
		switch channelType {
		case "":
			channelType = db.ChannelTypeText
		case db.ChannelTypeText, db.ChannelTypeAudio, db.ChannelTypeVideo:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel type"})
			return
		}

		channel, err := db.CreateChannel(server_id, name, channelType, profile.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating channel"})
			return
		}
		c.JSON(http.StatusCreated, channel)
	}
}

func updateChannel() gin.HandlerFunc {
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
		if channel.Name == "general" {
			c.JSON(http.StatusBadRequest, gin.H{"error": db.ErrGeneralChannel.Error()})
			return
		}

		member, err := db.GetMember(channel.ServerID, profile.ID)
		if err != nil || !db.RoleAtLeast(member.Role, db.RoleModerator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator role required"})
			return
		}

		var req UpdateChannelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || name == "general" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel name"})
			return
		}

		updated, err := db.UpdateChannelName(channel_id, name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating channel"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteChannel() gin.HandlerFunc {
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
		if channel.Name == "general" {
			c.JSON(http.StatusBadRequest, gin.H{"error": db.ErrGeneralChannel.Error()})
			return
		}

		member, err := db.GetMember(channel.ServerID, profile.ID)
		if err != nil || !db.RoleAtLeast(member.Role, db.RoleModerator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Moderator role required"})
			return
		}

		if err := db.DeleteChannel(channel_id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting channel"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}
