package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
)

func StartAPIServer() {
	router := gin.Default()
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	corsConfig := cors.DefaultConfig()
	frontend := os.Getenv("FRONTEND_URL")
	if frontend != "" {
		corsConfig.AllowOrigins = []string{frontend}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-CSRF-Token")
	router.Use(cors.New(corsConfig))

	router.GET("/api/csrf", issueCSRFToken())
	router.POST("/api/webhook/stripe", RateLimitMiddleware("webhook", 300, time.Minute), handleStripeWebhook())

	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(AuthMiddleware())
	protectedRoutes.Use(RateLimitMiddleware("api", 120, time.Minute))
	protectedRoutes.Use(CSRFMiddleware())
	{
		protectedRoutes.POST("/profile", upsertProfile())
		protectedRoutes.GET("/profile", getProfile())

		protectedRoutes.POST("/servers", createServer())
		protectedRoutes.GET("/servers", listServers())
		protectedRoutes.GET("/servers/:serverID", getServer())
		protectedRoutes.PATCH("/servers/:serverID", updateServer())
		protectedRoutes.PATCH("/servers/:serverID/invite-code", rotateInviteCode())
		protectedRoutes.DELETE("/servers/:serverID/leave", leaveServer())
		protectedRoutes.DELETE("/servers/:serverID", deleteServer())
		protectedRoutes.POST("/servers/:serverID/channels", createChannel())
		protectedRoutes.GET("/servers/:serverID/search", searchServerMessages())
		protectedRoutes.POST("/invite/:inviteCode", joinServer())

		protectedRoutes.PATCH("/channels/:channelID", updateChannel())
		protectedRoutes.DELETE("/channels/:channelID", deleteChannel())
		protectedRoutes.GET("/channels/:channelID/messages", listMessages())
		protectedRoutes.POST("/channels/:channelID/messages",
			RateLimitMiddleware("messages", 30, time.Minute), SubscriptionGateMiddleware(), createMessage())

		protectedRoutes.PATCH("/messages/:messageID", editMessage())
		protectedRoutes.DELETE("/messages/:messageID", deleteMessage())

		protectedRoutes.PATCH("/members/:memberID", updateMemberRole())
		protectedRoutes.DELETE("/members/:memberID", kickMember())

		protectedRoutes.GET("/notifications", listNotifications())
		protectedRoutes.GET("/notifications/unread-count", unreadNotificationCount())
		protectedRoutes.POST("/notifications/read/:notificationID", markNotificationRead())
		protectedRoutes.POST("/notifications/read-all", markAllNotificationsRead())

		protectedRoutes.POST("/stripe/checkout", createCheckoutSession())
		protectedRoutes.GET("/stripe/session-status", retrieveCheckoutSession())
		protectedRoutes.GET("/stripe/portal", createPortalSession())

		adminRoutes := protectedRoutes.Group("/admin")
		adminRoutes.Use(AdminOnlyMiddleware())
		{
			adminRoutes.POST("/coupons", createCoupon())
			adminRoutes.GET("/coupons", listCoupons())
			adminRoutes.POST("/coupons/apply", applyCouponToSubscription())
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Starting API on port " + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting API server: %v", err)
	}
}

func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user_id, ok := currentUserID(c)
		if !ok {
			c.Abort()
			return
		}
		if !isPlatformAdmin(user_id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
