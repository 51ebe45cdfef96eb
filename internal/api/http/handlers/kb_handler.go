package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// KBHandler manages knowledge base endpoints.
type KBHandler struct {
	service *service.KBService
}

// NewKBHandler constructs handler.
func NewKBHandler(kbService *service.KBService) *KBHandler {
	return &KBHandler{service: kbService}
}

// CreateArticle POST /api/kb. Staff only.
func (h *KBHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.CreateArticle(c.Context(), service.KBArticleInput{
		Title:  req.Title,
		Body:   req.Body,
		Tags:   req.Tags,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// UpdateArticle PUT /api/kb/:id. Staff only.
func (h *KBHandler) UpdateArticle(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.UpdateArticle(c.Context(), c.Params("id"), service.KBArticleInput{
		Title:  req.Title,
		Body:   req.Body,
		Tags:   req.Tags,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// DeleteArticle DELETE /api/kb/:id. Staff only.
func (h *KBHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetArticle GET /api/kb/:id.
func (h *KBHandler) GetArticle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	article, err := h.service.GetArticle(c.Context(), c.Params("id"), principal.Role.IsStaff())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// ListArticles GET /api/kb.
func (h *KBHandler) ListArticles(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := repository.KBFilter{
		Query:  c.Query("query"),
		Limit:  parseInt(c.Query("pageSize"), 20),
		Offset: (parseInt(c.Query("page"), 1) - 1) * parseInt(c.Query("pageSize"), 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ArticleStatus(strings.TrimSpace(raw))
		filter.Status = &status
	}
	if raw := c.Query("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	articles, err := h.service.ListArticles(c.Context(), filter, principal.Role.IsStaff())
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Search GET /api/kb/search.
func (h *KBHandler) Search(c *fiber.Ctx) error {
	refs, err := h.service.Search(c.Context(), c.Query("query"), parseInt(c.Query("limit"), 3))
	if err != nil {
		return err
	}
	items := make([]dto.ArticleRefResponse, 0, len(refs))
	for _, ref := range refs {
		items = append(items, dto.NewArticleRefResponse(ref))
	}
	return c.JSON(fiber.Map{"data": items})
}
