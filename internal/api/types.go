package api

type UpsertProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	ImageURL string `json:"image_url"`
}

type CreateServerRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"image_url"`
}

type UpdateServerRequest struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"image_url"`
}

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

type UpdateChannelRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateMessageRequest struct {
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type CreateCouponRequest struct {
	Name             string  `json:"name" binding:"required"`
	PercentOff       float64 `json:"percent_off" binding:"required"`
	DurationInMonths int64   `json:"duration_in_months"`
}

type ApplyCouponRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	CouponID string `json:"coupon_id" binding:"required"`
}

type CheckoutSessionType struct {
	Status string `json:"status"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
