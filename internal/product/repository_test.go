package product

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillsenselab/prodman/internal/database"
	"github.com/skillsenselab/prodman/internal/logger"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gdb.AutoMigrate(&Product{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewRepository(database.NewWithGorm(gdb, logger.NewDefault("test")))
}

func TestCreateBatchAndGet(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	batch := []*Product{
		{Name: "Widget", Category: "tools", UnitPrice: 9.99, Stock: 10, LowStock: 2, Status: StatusActive},
		{Name: "Gadget", Category: "gizmos", UnitPrice: 19.99, Stock: 5, Status: StatusActive},
	}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, batch[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Widget" || got.UnitPrice != 9.99 {
		t.Errorf("unexpected product: %+v", got)
	}
	if got.Category != "tools" || got.LowStock != 2 || got.Status != StatusActive {
		t.Errorf("unexpected catalog fields: %+v", got)
	}
}

func TestCreateBatchEmpty(t *testing.T) {
	repo := testRepository(t)
	if err := repo.CreateBatch(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestListNameFilter(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	_ = repo.CreateBatch(ctx, []*Product{
		{Name: "Blue Widget", Category: "tools", UnitPrice: 1, Status: StatusActive},
		{Name: "Red Widget", Category: "tools", UnitPrice: 2, Status: StatusActive},
		{Name: "Gadget", Category: "gizmos", UnitPrice: 3, Status: StatusActive},
	})

	products, total, err := repo.List(ctx, ListFilter{Name: "Widget", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Errorf("expected 2 widgets, got total=%d len=%d", total, len(products))
	}

	products, total, err = repo.List(ctx, ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(products) != 2 {
		t.Errorf("expected page of 2, got %d", len(products))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	batch := []*Product{{Name: "Widget", Category: "tools", UnitPrice: 9.99, Stock: 3, Status: StatusActive}}
	if err := repo.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := batch[0]

	p.Stock = 7
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stock != 7 {
		t.Errorf("expected stock 7, got %d", got.Stock)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
