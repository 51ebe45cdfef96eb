package domain

import "time"

// ArticleStatus gates knowledge base visibility. Only published articles
// are eligible for search and agent suggestions.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// KBArticle is a knowledge base entry.
type KBArticle struct {
	ID        string
	Title     string
	Body      string
	Tags      []string
	Status    ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KBArticleRef is the compact projection returned by search and attached to
// agent suggestions.
type KBArticleRef struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

// Ref projects the article to its search result shape.
func (a *KBArticle) Ref() KBArticleRef {
	return KBArticleRef{ID: a.ID, Title: a.Title, UpdatedAt: a.UpdatedAt}
}
