package api

import (
	"crypto/rsa"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

var authPublicKey *rsa.PublicKey
var adminUserIDs map[string]bool

// InitAuth parses the Clerk instance's RS256 public key so session JWTs
// are verified locally instead of per-request calls to the auth provider.
func InitAuth() {
	pem := os.Getenv("CLERK_JWT_PUBLIC_KEY")
	if pem == "" {
		log.Fatal("CLERK_JWT_PUBLIC_KEY is not set")
	}
	// env files carry the PEM with escaped newlines
	pem = strings.ReplaceAll(pem, `\n`, "\n")

	var err error
	authPublicKey, err = jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		log.Fatalf("Error parsing CLERK_JWT_PUBLIC_KEY: %v", err)
	}

	adminUserIDs = make(map[string]bool)
	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			adminUserIDs[id] = true
		}
	}
}

func verifySessionToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return authPublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			c.Abort()
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		userID, err := verifySessionToken(token)
		if err != nil || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Store the user ID in the context
		c.Set("userID", userID)
		c.Next()
	}
}

func isPlatformAdmin(userID string) bool {
	return adminUserIDs[userID]
}

// currentUserID pulls the authenticated user id set by AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found"})
		return "", false
	}
	user_id := userID.(string)
	if user_id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user ID"})
		return "", false
	}
	return user_id, true
}

// currentProfile resolves the caller's profile row or writes a 404.
func currentProfile(c *gin.Context) (db.Profile, bool) {
	user_id, ok := currentUserID(c)
	if !ok {
		return db.Profile{}, false
	}
	profile, err := db.GetProfileByUserID(user_id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return db.Profile{}, false
	}
	return profile, true
}

// SubscriptionGateMiddleware rejects callers whose cached subscription is
// not active. Platform admins always pass. Server admins pass for
// channels on their own servers so owners are never locked out of their
// community.
func SubscriptionGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user_id, ok := currentUserID(c)
		if !ok {
			c.Abort()
			return
		}
		if isPlatformAdmin(user_id) {
			c.Next()
			return
		}
		profile, err := db.GetProfileByUserID(user_id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}
		if db.SubscriptionActive(profile.SubscriptionStatus, profile.CurrentPeriodEnd) {
			c.Next()
			return
		}

		if channelID := c.Param("channelID"); channelID != "" {
			channel, err := db.GetChannel(channelID)
			if err == nil {
				member, err := db.GetMember(channel.ServerID, profile.ID)
				if err == nil && member.Role == db.RoleAdmin {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Active subscription required"})
		c.Abort()
	}
}
