package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

func upsertProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user_id, ok := currentUserID(c)
		if !ok {
			return
		}

		var req UpsertProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profile, err := db.UpsertProfile(user_id, req.Name, req.Email, req.ImageURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving profile"})
			return
		}
		c.JSON(http.StatusCreated, profile)
	}
}

func getProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"profile":             profile,
			"subscription_active": db.SubscriptionActive(profile.SubscriptionStatus, profile.CurrentPeriodEnd),
			"is_admin":            isPlatformAdmin(profile.UserID),
		})
	}
}
