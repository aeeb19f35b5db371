package db

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

func UpsertProfile(userID string, name string, email string, imageURL string) (Profile, error) {
	row := DbPool.QueryRow(context.Background(), `
		INSERT INTO profiles (id, user_id, name, email, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, image_url = EXCLUDED.image_url, updated_at = NOW()
		RETURNING id, user_id, name, email, image_url, stripe_customer_id, subscription_status,
			stripe_product_id, subscription_id, current_period_end, created_at
	`, uuid.NewString(), userID, name, email, imageURL)
	return scanProfile(row)
}

func GetProfileByUserID(userID string) (Profile, error) {
	row := DbPool.QueryRow(context.Background(), `
		SELECT id, user_id, name, email, image_url, stripe_customer_id, subscription_status,
			stripe_product_id, subscription_id, current_period_end, created_at
		FROM profiles WHERE user_id = $1
	`, userID)
	return scanProfile(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.ImageURL, &p.StripeCustomerID,
		&p.SubscriptionStatus, &p.StripeProductID, &p.SubscriptionID, &p.CurrentPeriodEnd, &p.CreatedAt)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateSubscriptionCache writes the Stripe webhook cache fields. The
// current_period_end watermark rejects out-of-order webhook deliveries:
// an event describing an older billing period never overwrites a newer one.
func UpdateSubscriptionCache(userID string, customerID string, status string, productID string, subscriptionID string, periodEnd time.Time) error {
	tag, err := DbPool.Exec(context.Background(), `
		UPDATE profiles
		SET stripe_customer_id = $1, subscription_status = $2, stripe_product_id = $3,
			subscription_id = $4, current_period_end = $5, updated_at = NOW()
		WHERE user_id = $6 AND (current_period_end IS NULL OR current_period_end <= $5)
	`, customerID, status, productID, subscriptionID, periodEnd, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Printf("Stale subscription event for user %s ignored (period end %s)", userID, periodEnd)
	}
	return nil
}

func ClearSubscriptionCache(userID string) error {
	_, err := DbPool.Exec(context.Background(), `
		UPDATE profiles
		SET subscription_status = 'canceled', stripe_product_id = '', subscription_id = '', updated_at = NOW()
		WHERE user_id = $1
	`, userID)
	return err
}
