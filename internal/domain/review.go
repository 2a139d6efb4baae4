package domain

import "time"

// DefaultReviewAuthor is used when a review is posted without a name.
const DefaultReviewAuthor = "You"

// Review is a locally posted product review. Reviews are kept in memory only.
type Review struct {
	ID        string    `json:"id"`
	ProductID ProductID `json:"product_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// StarterReviews returns the reviews every product page opens with, stamped
// at the given time.
func StarterReviews(at time.Time) []Review {
	return []Review{
		{ID: "starter-1", Author: "Rahul", Text: "Great product! Highly recommend 👍", CreatedAt: at},
		{ID: "starter-2", Author: "Ayesha", Text: "Good value for money. Delivered on time.", CreatedAt: at},
	}
}
