package db

import "time"

const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
	RoleGuest     = "GUEST"
)

const (
	ChannelTypeText  = "TEXT"
	ChannelTypeAudio = "AUDIO"
	ChannelTypeVideo = "VIDEO"
)

type Profile struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ImageURL           string     `json:"image_url"`
	StripeCustomerID   string     `json:"stripe_customer_id,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
	StripeProductID    string     `json:"stripe_product_id,omitempty"`
	SubscriptionID     string     `json:"subscription_id,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type Server struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	InviteCode string    `json:"invite_code"`
	ProfileID  string    `json:"profile_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Channel struct {
	ID        string    `json:"id"`
	ServerID  string    `json:"server_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ProfileID string    `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Member struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	ProfileID string    `json:"profile_id"`
	ServerID  string    `json:"server_id"`
	CreatedAt time.Time `json:"created_at"`

	ProfileName  string `json:"profile_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	FileURL   string    `json:"file_url,omitempty"`
	Deleted   bool      `json:"deleted"`
	Edited    bool      `json:"edited"`
	MemberID  string    `json:"member_id"`
	ChannelID string    `json:"channel_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AuthorName  string `json:"author_name,omitempty"`
	AuthorImage string `json:"author_image,omitempty"`
	AuthorRole  string `json:"author_role,omitempty"`
}

type ServerDetails struct {
	Server
	Channels []Channel `json:"channels"`
	Members  []Member  `json:"members"`
}

type Notification struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ServerID  string    `json:"server_id,omitempty"`
	ChannelID string    `json:"channel_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

var roleRank = map[string]int{
	RoleGuest:     0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// RoleAtLeast reports whether role grants at least the privileges of min.
// Unknown roles rank below GUEST.
func RoleAtLeast(role string, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	return r >= roleRank[min]
}

// SubscriptionActive is the request-time gate over the webhook-cached
// fields. A short grace window covers renewal invoices that have not
// hit the webhook yet.
func SubscriptionActive(status string, periodEnd *time.Time) bool {
	if status != "active" && status != "trialing" {
		return false
	}
	if periodEnd == nil {
		return false
	}
	const grace = 24 * time.Hour
	return time.Now().Before(periodEnd.Add(grace))
}
