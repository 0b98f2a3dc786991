package models

import "time"

// Author is the subset of User embedded into a thread.
type Author struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type Thread struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Author          Author    `json:"author"`
	CreatedAt       time.Time `json:"createdAt"`
	LikeCount       int       `json:"likeCount"`
	CommentCount    int       `json:"commentCount"`
	SubscriberCount int       `json:"subscriberCount"`
	IsLiked         bool      `json:"isLiked"`
	IsSubscribed    bool      `json:"isSubscribed"`
	IsVerified      bool      `json:"isVerified,omitempty"`
	HasImage        bool      `json:"hasImage,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
}

type CreateThreadInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type PageMeta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

// NextPage returns the page after CurrentPage while one exists.
func (m PageMeta) NextPage() (int, bool) {
	if m.CurrentPage < m.TotalPages {
		return m.CurrentPage + 1, true
	}
	return 0, false
}

type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}
