package api

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	billingPortalSession "github.com/stripe/stripe-go/v81/billingportal/session"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/coupon"
	"github.com/stripe/stripe-go/v81/subscription"

	"github.com/tradersutopia/tradersutopia/internal/db"
)

func createCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		price_id := c.Query("price_id")
		if price_id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price_id is missing"})
			return
		}
		profile, ok := currentProfile(c)
		if !ok {
			return
		}

		domain := os.Getenv("FRONTEND_URL")
		params := &stripe.CheckoutSessionParams{
			SuccessURL: stripe.String(domain + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:  stripe.String(domain + "/pricing"),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					Price:    stripe.String(price_id),
					Quantity: stripe.Int64(1),
				},
			},
			SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
				Metadata: map[string]string{
					"user_id": profile.UserID,
				},
			},
			Mode:                stripe.String(string(stripe.CheckoutSessionModeSubscription)),
			CustomerEmail:       stripe.String(profile.Email),
			AllowPromotionCodes: stripe.Bool(true),
		}
		if profile.StripeCustomerID != "" {
			params.Customer = stripe.String(profile.StripeCustomerID)
			params.CustomerEmail = nil
		}

		s, err := session.New(params)
		if err != nil {
			log.Printf("session.New: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": s.URL})
	}
}

func retrieveCheckoutSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session_id := c.Query("session_id")
		if session_id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
			return
		}
		s, err := session.Get(session_id, nil)
		if err != nil {
			log.Printf("session.Get error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := CheckoutSessionType{Status: string(s.Status)}
		if s.CustomerDetails != nil {
			resp.Name = s.CustomerDetails.Name
			resp.Email = s.CustomerDetails.Email
		}
		c.JSON(http.StatusOK, resp)
	}
}

func createPortalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := currentProfile(c)
		if !ok {
			return
		}
		if profile.StripeCustomerID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "This user is not subscribed yet"})
			return
		}

		domain := os.Getenv("FRONTEND_URL")
		returnURL := fmt.Sprintf("%s/settings/billing", domain)
		params := &stripe.BillingPortalSessionParams{
			Customer:  stripe.String(profile.StripeCustomerID),
			ReturnURL: stripe.String(returnURL),
		}

		s, err := billingPortalSession.New(params)
		if err != nil {
			log.Printf("session.New: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": s.URL})
	}
}

// DiscountedUnitAmount applies a percentage coupon to a unit amount in
// cents, rounding half away from zero the way Stripe displays it.
func DiscountedUnitAmount(unitAmount int64, percentOff float64) int64 {
	return int64(math.Round(float64(unitAmount) * (100 - percentOff) / 100))
}

func createCoupon() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.PercentOff <= 0 || req.PercentOff > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent_off must be between 0 and 100"})
			return
		}

		params := &stripe.CouponParams{
			Name:       stripe.String(req.Name),
			PercentOff: stripe.Float64(req.PercentOff),
		}
		if req.DurationInMonths > 0 {
			params.Duration = stripe.String(string(stripe.CouponDurationRepeating))
			params.DurationInMonths = stripe.Int64(req.DurationInMonths)
		} else {
			params.Duration = stripe.String(string(stripe.CouponDurationForever))
		}

		cp, err := coupon.New(params)
		if err != nil {
			log.Printf("coupon.New: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": cp.ID, "name": cp.Name, "percent_off": cp.PercentOff})
	}
}

func listCoupons() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := &stripe.CouponListParams{}
		iter := coupon.List(params)

		var coupons []gin.H
		for iter.Next() {
			cp := iter.Coupon()
			if !cp.Valid {
				continue
			}
			coupons = append(coupons, gin.H{
				"id":                 cp.ID,
				"name":               cp.Name,
				"percent_off":        cp.PercentOff,
				"duration":           cp.Duration,
				"duration_in_months": cp.DurationInMonths,
			})
		}
		if err := iter.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

// applyCouponToSubscription attaches a retention discount to a user's
// active subscription. Stacking is rejected: a subscription that already
// carries a discount keeps it.
func applyCouponToSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profile, err := db.GetProfileByUserID(req.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if profile.SubscriptionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User has no subscription"})
			return
		}

		sub, err := subscription.Get(profile.SubscriptionID, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Subscription not found"})
			return
		}
		if len(sub.Discounts) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Subscription already has a discount"})
			return
		}

		updated, err := subscription.Update(profile.SubscriptionID, &stripe.SubscriptionParams{
			Discounts: []*stripe.SubscriptionDiscountParams{
				{Coupon: stripe.String(req.CouponID)},
			},
		})
		if err != nil {
			log.Printf("subscription.Update: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{"subscription_id": updated.ID}
		if len(updated.Items.Data) > 0 && len(updated.Discounts) > 0 && updated.Discounts[0].Coupon != nil {
			unitAmount := updated.Items.Data[0].Price.UnitAmount
			resp["discounted_unit_amount"] = DiscountedUnitAmount(unitAmount, updated.Discounts[0].Coupon.PercentOff)
		}
		c.JSON(http.StatusOK, resp)
	}
}
