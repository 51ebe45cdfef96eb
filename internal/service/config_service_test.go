package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestConfigUpdateValidatesRanges(t *testing.T) {
	t.Parallel()

	svc := NewConfigService(&fakeConfigRepo{cfg: domain.DefaultAgentConfig()})

	for _, input := range []ConfigUpdateInput{
		{ConfidenceThreshold: -0.1, SLAHours: 24},
		{ConfidenceThreshold: 1.1, SLAHours: 24},
		{ConfidenceThreshold: 0.5, SLAHours: 0},
	} {
		if _, err := svc.Update(context.Background(), input); !apperrors.IsCode(err, "VALIDATION_ERROR") {
			t.Errorf("Update(%+v) err = %v, want VALIDATION_ERROR", input, err)
		}
	}
}

func TestConfigUpdateRoundTrips(t *testing.T) {
	t.Parallel()

	repo := &fakeConfigRepo{cfg: domain.DefaultAgentConfig()}
	svc := NewConfigService(repo)

	updated, err := svc.Update(context.Background(), ConfigUpdateInput{
		AutoCloseEnabled:    true,
		ConfidenceThreshold: 0.85,
		SLAHours:            48,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.AutoCloseEnabled || updated.ConfidenceThreshold != 0.85 || updated.SLAHours != 48 {
		t.Errorf("updated = %+v", updated)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ConfidenceThreshold != 0.85 {
		t.Errorf("Get after Update = %+v", got)
	}
}
