package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

func updateMemberRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		member_id := c.Param("memberID")

		target, err := db.GetMemberByID(member_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}

		actor, err := db.GetMember(target.ServerID, profile.ID)
		if err != nil || actor.Role != db.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		if target.ID == actor.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
			return
		}

		server, err := db.GetServerDetails(target.ServerID)
		if err == nil && server.ProfileID == target.ProfileID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change the owner's role"})
			return
		}

		var req UpdateMemberRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		switch req.Role {
		case db.RoleModerator, db.RoleGuest:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}

		updated, err := db.UpdateMemberRole(member_id, req.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating role"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func kickMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		member_id := c.Param("memberID")

		target, err := db.GetMemberByID(member_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}

		actor, err := db.GetMember(target.ServerID, profile.ID)
		if err != nil || actor.Role != db.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		if target.ID == actor.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot kick yourself"})
			return
		}

		server, err := db.GetServerDetails(target.ServerID)
		if err == nil && server.ProfileID == target.ProfileID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot kick the server owner"})
			return
		}

		if err := db.RemoveMember(member_id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing member"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}
