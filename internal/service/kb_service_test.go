package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestCreateArticleDefaultsToDraft(t *testing.T) {
	t.Parallel()

	svc := NewKBService(newFakeKBRepo())
	article, err := svc.CreateArticle(context.Background(), KBArticleInput{
		Title: "Password reset",
		Body:  "Use the forgot-password link.",
		Tags:  []string{" account ", ""},
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if article.Status != domain.ArticleStatusDraft {
		t.Errorf("status = %s, want draft", article.Status)
	}
	if len(article.Tags) != 1 || article.Tags[0] != "account" {
		t.Errorf("tags = %v, want trimmed [account]", article.Tags)
	}
}

func TestCreateArticleValidation(t *testing.T) {
	t.Parallel()

	svc := NewKBService(newFakeKBRepo())
	if _, err := svc.CreateArticle(context.Background(), KBArticleInput{Title: " ", Body: "x"}); !apperrors.IsCode(err, "MISSING_FIELDS") {
		t.Errorf("empty title err = %v, want MISSING_FIELDS", err)
	}
	if _, err := svc.CreateArticle(context.Background(), KBArticleInput{Title: "x", Body: "y", Status: "archived"}); !apperrors.IsCode(err, "VALIDATION_ERROR") {
		t.Errorf("bad status err = %v, want VALIDATION_ERROR", err)
	}
}

func TestGetArticleGatesDrafts(t *testing.T) {
	t.Parallel()

	kb := newFakeKBRepo()
	svc := NewKBService(kb)
	draft, err := svc.CreateArticle(context.Background(), KBArticleInput{Title: "WIP", Body: "unfinished"})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	if _, err := svc.GetArticle(context.Background(), draft.ID, false); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("customer read of draft err = %v, want FORBIDDEN", err)
	}
	if _, err := svc.GetArticle(context.Background(), draft.ID, true); err != nil {
		t.Errorf("staff read of draft err = %v, want nil", err)
	}
}

func TestListArticlesPinsCustomersToPublished(t *testing.T) {
	t.Parallel()

	kb := newFakeKBRepo()
	svc := NewKBService(kb)
	if _, err := svc.CreateArticle(context.Background(), KBArticleInput{Title: "Draft", Body: "d"}); err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if _, err := svc.CreateArticle(context.Background(), KBArticleInput{Title: "Live", Body: "l", Status: domain.ArticleStatusPublished}); err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	visible, err := svc.ListArticles(context.Background(), repository.KBFilter{}, false)
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(visible) != 1 || visible[0].Status != domain.ArticleStatusPublished {
		t.Errorf("customer list = %v, want only published", visible)
	}

	all, err := svc.ListArticles(context.Background(), repository.KBFilter{}, true)
	if err != nil {
		t.Fatalf("ListArticles staff: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("staff list = %d articles, want 2", len(all))
	}
}
