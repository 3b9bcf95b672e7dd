package dto

import (
	"time"

	"github.com/Additional-Code/geosstore/internal/entity"
	dashboardrepo "github.com/Additional-Code/geosstore/internal/repository/dashboard"
)

// SubscribeRequest signs an email up to the newsletter.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscriberResponse is a newsletter signup.
type SubscriberResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// ReviewResponse is a storefront testimonial.
type ReviewResponse struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ProductID    *int64    `json:"product_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatsResponse holds dashboard headline numbers.
type StatsResponse struct {
	Revenue        int64          `json:"revenue"`
	Orders         int            `json:"orders"`
	Leads          int            `json:"leads"`
	Products       int            `json:"products"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
}

// NewSubscriberResponses maps newsletter rows.
func NewSubscriberResponses(subs []*entity.Subscriber) []SubscriberResponse {
	out := make([]SubscriberResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, SubscriberResponse{ID: s.ID, Email: s.Email, SubscribedAt: s.SubscribedAt})
	}
	return out
}

// NewReviewResponse maps a review entity.
func NewReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		ProductID:    r.ProductID,
		CreatedAt:    r.CreatedAt,
	}
}

// NewReviewResponses maps a slice of reviews.
func NewReviewResponses(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

// NewStatsResponse maps dashboard stats.
func NewStatsResponse(s dashboardrepo.Stats) StatsResponse {
	byStatus := s.OrdersByStatus
	if byStatus == nil {
		byStatus = map[string]int{}
	}
	return StatsResponse{
		Revenue:        s.Revenue,
		Orders:         s.Orders,
		Leads:          s.Leads,
		Products:       s.Products,
		OrdersByStatus: byStatus,
	}
}
