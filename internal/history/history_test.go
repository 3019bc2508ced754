package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/opensource-trade/skipjack/internal/cache"
	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/repository"
)

func testService(t *testing.T) (*Service, domain.Repository) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "history-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	lru := cache.NewLRUCache(100)
	t.Cleanup(func() { lru.Close() })

	return NewService(repo, lru), repo
}

func saveCalc(t *testing.T, repo domain.Repository, ownerID, id string, performedAt time.Time) {
	t.Helper()
	err := repo.SaveCalculation(context.Background(), ownerID, &domain.CalculationResult{
		ID:            id,
		OwnerID:       ownerID,
		Product:       "Rice (Paddy & Milled)",
		Brand:         "GoldenHarvest",
		ExportingFrom: "China",
		ImportingTo:   "Australia",
		Mode:          domain.ModeGlobal,
		Quantity:      10,
		UnitCost:      12.3,
		Currency:      "USD",
		TariffRate:    0.25,
		TariffType:    domain.RateAHS,
		RateSource:    "base",
		ProductCost:   123.0,
		TariffAmount:  0.3075,
		TotalCost:     123.3075,
		PerformedAt:   performedAt,
	})
	if err != nil {
		t.Fatalf("failed to save calculation: %v", err)
	}
}

func TestHistoryService(t *testing.T) {
	svc, repo := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		saveCalc(t, repo, "user-001", fmt.Sprintf("calc-%03d", i), now.Add(-time.Duration(i)*time.Hour))
	}
	saveCalc(t, repo, "user-002", "calc-other", now)

	t.Run("Get", func(t *testing.T) {
		calc, err := svc.Get(ctx, "user-001", "calc-000")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if calc.TotalCost != 123.3075 {
			t.Errorf("expected total 123.3075, got %v", calc.TotalCost)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := svc.Get(ctx, "user-001", "calc-missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("GetOwnerIsolation", func(t *testing.T) {
		_, err := svc.Get(ctx, "user-002", "calc-000")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected not-found for another owner, got %v", err)
		}
	})

	t.Run("GetRequiresArguments", func(t *testing.T) {
		if _, err := svc.Get(ctx, "", "calc-000"); err == nil {
			t.Error("expected error for empty owner")
		}
		if _, err := svc.Get(ctx, "user-001", ""); err == nil {
			t.Error("expected error for empty calculation ID")
		}
	})

	t.Run("RecentNewestFirst", func(t *testing.T) {
		calcs, err := svc.Recent(ctx, "user-001", now.Add(-24*time.Hour), 0)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(calcs) != 5 {
			t.Fatalf("expected 5 calculations, got %d", len(calcs))
		}
		for i := 1; i < len(calcs); i++ {
			if calcs[i].PerformedAt.After(calcs[i-1].PerformedAt) {
				t.Errorf("expected newest first, %s after %s", calcs[i].ID, calcs[i-1].ID)
			}
		}
	})

	t.Run("RecentHonorsLimit", func(t *testing.T) {
		calcs, err := svc.Recent(ctx, "user-001", now.Add(-24*time.Hour), 2)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(calcs) != 2 {
			t.Errorf("expected 2 calculations, got %d", len(calcs))
		}
	})

	t.Run("RecentHonorsSince", func(t *testing.T) {
		calcs, err := svc.Recent(ctx, "user-001", now.Add(-90*time.Minute), 0)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		if len(calcs) != 2 {
			t.Errorf("expected 2 calculations inside window, got %d", len(calcs))
		}
	})

	t.Run("CountSince", func(t *testing.T) {
		count, err := svc.CountSince(ctx, "user-002", now.Add(-time.Hour))
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected count 1, got %d", count)
		}
	})
}

func TestRecordActivity(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	t.Run("CountsWithinWindow", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			count, err := svc.RecordActivity(ctx, "user-001", time.Hour)
			if err != nil {
				t.Fatalf("record failed: %v", err)
			}
			if count != i {
				t.Errorf("expected count %d, got %d", i, count)
			}
		}
	})

	t.Run("PerOwnerCounters", func(t *testing.T) {
		count, err := svc.RecordActivity(ctx, "user-002", time.Hour)
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected fresh counter for new owner, got %d", count)
		}
	})

	t.Run("NilCacheIsNoop", func(t *testing.T) {
		bare := NewService(nil, nil)
		count, err := bare.RecordActivity(ctx, "user-001", time.Hour)
		if err != nil || count != 0 {
			t.Errorf("expected 0 without cache, got %d (%v)", count, err)
		}
	})
}
