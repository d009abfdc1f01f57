package domain

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// IsTerminal reports whether the verification decision has been made.
// Approved and rejected sellers cannot be re-reviewed.
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

func (s VerificationStatus) String() string {
	return string(s)
}

// Seller extends a User with role=seller. Rating aggregates are kept as a
// running sum + count so a single atomic update can move the average; the
// average itself is derived from those two fields, never from re-reading
// the review history.
type Seller struct {
	ID                 string             `bson:"_id" json:"id"`
	UserID             string             `bson:"user_id" json:"user_id"`
	ShopName           string             `bson:"shop_name" json:"shop_name"`
	Description        string             `bson:"description" json:"description"`
	VerificationStatus VerificationStatus `bson:"verification_status" json:"verification_status"`
	RatingSum          float64            `bson:"rating_sum" json:"-"`
	RatingAverage      float64            `bson:"rating_average" json:"rating_average"`
	TotalReviews       int64              `bson:"total_reviews" json:"total_reviews"`
	TotalOrders        int64              `bson:"total_orders" json:"total_orders"`
	TotalEarnings      float64            `bson:"total_earnings" json:"total_earnings"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
