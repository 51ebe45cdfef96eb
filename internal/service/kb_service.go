package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// KBService exposes knowledge base management and search.
type KBService struct {
	kb repository.KBRepository
}

// NewKBService constructs the service.
func NewKBService(kb repository.KBRepository) *KBService {
	return &KBService{kb: kb}
}

// KBArticleInput describes create/update payloads.
type KBArticleInput struct {
	Title  string
	Body   string
	Tags   []string
	Status domain.ArticleStatus
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CreateArticle validates and persists a new article, draft by default.
func (s *KBService) CreateArticle(ctx context.Context, input KBArticleInput) (*domain.KBArticle, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewMissingFields("title and body are required")
	}
	status := input.Status
	if status == "" {
		status = domain.ArticleStatusDraft
	}
	if status != domain.ArticleStatusDraft && status != domain.ArticleStatusPublished {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	article := &domain.KBArticle{
		Title:  strings.TrimSpace(input.Title),
		Body:   input.Body,
		Tags:   normalizeTags(input.Tags),
		Status: status,
	}
	if err := s.kb.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// UpdateArticle applies a partial update.
func (s *KBService) UpdateArticle(ctx context.Context, id string, input KBArticleInput) (*domain.KBArticle, error) {
	article, err := s.kb.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if strings.TrimSpace(input.Title) != "" {
		article.Title = strings.TrimSpace(input.Title)
	}
	if strings.TrimSpace(input.Body) != "" {
		article.Body = input.Body
	}
	if input.Tags != nil {
		article.Tags = normalizeTags(input.Tags)
	}
	if input.Status != "" {
		if input.Status != domain.ArticleStatusDraft && input.Status != domain.ArticleStatusPublished {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
		}
		article.Status = input.Status
	}

	if err := s.kb.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// DeleteArticle removes an article.
func (s *KBService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.kb.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetArticle returns a single article. Non-staff callers only see
// published articles.
func (s *KBService) GetArticle(ctx context.Context, id string, staff bool) (*domain.KBArticle, error) {
	article, err := s.kb.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !staff && article.Status != domain.ArticleStatusPublished {
		return nil, apperrors.NewForbidden("article not published")
	}
	return article, nil
}

// ListArticles lists articles; non-staff callers are pinned to published.
func (s *KBService) ListArticles(ctx context.Context, filter repository.KBFilter, staff bool) ([]domain.KBArticle, error) {
	if !staff {
		published := domain.ArticleStatusPublished
		filter.Status = &published
	}
	articles, err := s.kb.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// Search returns the top published articles for a free-text query.
func (s *KBService) Search(ctx context.Context, query string, limit int) ([]domain.KBArticleRef, error) {
	refs, err := s.kb.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return refs, nil
}
