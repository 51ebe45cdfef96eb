package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ArticleRequest covers create and partial update payloads.
type ArticleRequest struct {
	Title  string               `json:"title"`
	Body   string               `json:"body"`
	Tags   []string             `json:"tags"`
	Status domain.ArticleStatus `json:"status,omitempty"`
}

// ArticleResponse is the full article projection.
type ArticleResponse struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Tags      []string             `json:"tags"`
	Status    domain.ArticleStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ArticleRefResponse is the compact shape returned by search.
type ArticleRefResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewArticleResponse converts a domain article.
func NewArticleResponse(article *domain.KBArticle) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Body:      article.Body,
		Tags:      article.Tags,
		Status:    article.Status,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}

// NewArticleRefResponse converts a search hit.
func NewArticleRefResponse(ref domain.KBArticleRef) ArticleRefResponse {
	return ArticleRefResponse{ID: ref.ID, Title: ref.Title, UpdatedAt: ref.UpdatedAt}
}
