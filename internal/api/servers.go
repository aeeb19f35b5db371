package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

func createServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}

		var req CreateServerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		server, err := db.CreateServer(profile.ID, req.Name, req.ImageURL)
		if err != nil {
			log.Printf("Error creating server: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating server"})
			return
		}
		c.JSON(http.StatusCreated, server)
	}
}

func listServers() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		servers, err := db.GetServersForProfile(profile.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, servers)
	}
}

func getServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		if _, err := db.GetMember(server_id, profile.ID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this server"})
			return
		}

		details, err := db.GetServerDetails(server_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

func updateServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		member, err := db.GetMember(server_id, profile.ID)
		if err != nil || member.Role != db.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}

		var req UpdateServerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		server, err := db.UpdateServer(server_id, req.Name, req.ImageURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating server"})
			return
		}
		c.JSON(http.StatusOK, server)
	}
}

func rotateInviteCode() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		member, err := db.GetMember(server_id, profile.ID)
		if err != nil || member.Role != db.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}

		code, err := db.RotateInviteCode(server_id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error rotating invite code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"invite_code": code})
	}
}

func joinServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		invite_code := c.Param("inviteCode")

		server, err := db.JoinServerByInvite(invite_code, profile.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
			return
		}
		c.JSON(http.StatusOK, server)
	}
}

func leaveServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		err := db.LeaveServer(server_id, profile.ID)
		if err != nil {
			if errors.Is(err, db.ErrOwnerLeave) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if errors.Is(err, db.ErrNotMember) {
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leaving server"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

func deleteServer() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		server_id := c.Param("serverID")

		if err := db.DeleteServer(server_id, profile.ID); err != nil {
			if errors.Is(err, db.ErrForbidden) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a server"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting server"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}
