package threads

import "time"

type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Thread is stored without viewer-specific fields; IsSubscribed and
// SubscriberCount are filled per request.
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
}

type Meta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

type Page struct {
	Items []Thread `json:"items"`
	Meta  Meta     `json:"meta"`
}
