package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/subscription"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/tradersutopia/tradersutopia/internal/cache"
	"github.com/tradersutopia/tradersutopia/internal/db"
)

func handleStripeWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		const MaxBodyBytes = int64(65536)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading request body: %v\n", err)
			c.Status(http.StatusServiceUnavailable)
			return
		}

		stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), stripeWebhookSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying webhook signature: %v\n", err)
			c.Status(http.StatusBadRequest) // Return a 400 error on a bad signature
			return
		}
		log.Printf("Event type: %s", event.Type)

		// Stripe retries delivery; replayed event ids are acknowledged
		// without reprocessing.
		dedupKey := "stripe:event:" + event.ID
		fresh, err := cache.Rdb.SetNX(context.Background(), dedupKey, 1, 24*time.Hour).Result()
		if err != nil {
			log.Printf("Webhook dedup cache error (processing anyway): %v", err)
		} else if !fresh {
			log.Printf("Duplicate webhook event %s ignored", event.ID)
			c.Status(http.StatusOK)
			return
		}

		switch event.Type {
		case "checkout.session.completed":
			err, errType := checkoutSessionCompleted(event)
			if err != nil {
				c.JSON(errType, gin.H{"error": err.Error()})
			}
			return
		case "invoice.payment_succeeded":
			err, errType := invoicePaymentSucceeded(event)
			if err != nil {
				c.JSON(errType, gin.H{"error": err.Error()})
			}
			return
		case "customer.subscription.updated":
			err, errType := customerSubscriptionUpdated(event)
			if err != nil {
				c.JSON(errType, gin.H{"error": err.Error()})
			}
			return
		case "customer.subscription.deleted":
			err, errType := customerSubscriptionDeleted(event)
			if err != nil {
				c.JSON(errType, gin.H{"error": err.Error()})
			}
			return
		default:
			log.Printf("Unhandled event type: %s\n", event.Type)
		}

		c.Status(http.StatusOK)
	}
}

// cacheSubscriptionState refreshes the profile's webhook cache fields
// from a subscription so request-time gating never calls Stripe.
func cacheSubscriptionState(sub *stripe.Subscription) (error, int) {
	userID := sub.Metadata["user_id"]
	if userID == "" {
		return errors.New("User ID not found in metadata"), http.StatusBadRequest
	}
	if len(sub.Items.Data) == 0 {
		return errors.New("No items found in subscription"), http.StatusBadRequest
	}

	productID := sub.Items.Data[0].Plan.Product.ID
	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)

	err := db.UpdateSubscriptionCache(userID, customerID, string(sub.Status), productID, sub.ID, periodEnd)
	if err != nil {
		return errors.New("Failed to update user subscription status"), http.StatusInternalServerError
	}
	return nil, 0
}

func checkoutSessionCompleted(event stripe.Event) (error, int) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		log.Printf("Error parsing webhook JSON: %v\n", err)
		return err, http.StatusBadRequest
	}
	if sess.Subscription == nil || sess.Subscription.ID == "" {
		return errors.New("No subscription found in checkout session"), http.StatusBadRequest
	}

	sub, err := subscription.Get(sess.Subscription.ID, nil)
	if err != nil {
		return errors.New("Subscription not found"), http.StatusBadRequest
	}
	return cacheSubscriptionState(sub)
}

func invoicePaymentSucceeded(event stripe.Event) (error, int) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		log.Printf("Error parsing webhook JSON: %v\n", err)
		return err, http.StatusBadRequest
	}

	if invoice.Subscription == nil || invoice.Subscription.ID == "" {
		return errors.New("No subscription found in invoice"), http.StatusBadRequest
	}
	sub, err := subscription.Get(invoice.Subscription.ID, nil)
	if err != nil {
		return errors.New("Subscription not found"), http.StatusBadRequest
	}
	return cacheSubscriptionState(sub)
}

func customerSubscriptionUpdated(event stripe.Event) (error, int) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return errors.New("Error parsing webhook JSON"), http.StatusBadRequest
	}
	return cacheSubscriptionState(&sub)
}

func customerSubscriptionDeleted(event stripe.Event) (error, int) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return errors.New("Error parsing webhook JSON"), http.StatusBadRequest
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		return errors.New("User ID not found in metadata"), http.StatusBadRequest
	}

	if err := db.ClearSubscriptionCache(userID); err != nil {
		return errors.New("Failed to clear subscription status"), http.StatusInternalServerError
	}

	log.Printf("Subscription canceled for user: %s", userID)
	return nil, 0
}
