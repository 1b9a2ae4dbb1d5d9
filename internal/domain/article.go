// Package domain holds the read models shared across the service.
package domain

import "time"

// ArticleSummary is the read-only view of a news article used for preview
// generation. Only Title is guaranteed non-empty upstream; every other field
// may be absent in authored content.
type ArticleSummary struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description,omitempty"`
	FullContent      string    `json:"full_content,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	PublishedAt      time.Time `json:"published_at"`
}
