package models

import "time"

// Article represents an article row
type Article struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AuthorID    int64     `json:"authorId"`
}

// ArticleView is an article denormalized for a viewer
type ArticleView struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Profile   `json:"author"`
}

// ArticleList is one page of articles plus the unpaginated match count
type ArticleList struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

// NewArticle holds the fields required to publish an article
type NewArticle struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticleUpdate holds the mutable fields of an article; nil means unchanged
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
}

// ArticleFilter narrows an article listing
type ArticleFilter struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}
