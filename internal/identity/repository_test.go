package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillsenselab/prodman/internal/auth"
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
	if err := gdb.AutoMigrate(&User{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewRepository(database.NewWithGorm(gdb, logger.NewDefault("test")))
}

func seedUser(t *testing.T, repo *Repository, name, email string, roles ...string) *User {
	t.Helper()
	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$12$digest",
		Status:       StatusActive,
		Roles:        RoleList(roles),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return user
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	created := seedUser(t, repo, "Ada", "Ada@Example.com", "admin")

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("email should be lowercased on create, got %q", got.Email)
	}
	if len(got.Roles) != 1 || got.Roles[0] != "admin" {
		t.Errorf("expected roles [admin], got %v", got.Roles)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := testRepository(t)
	seedUser(t, repo, "Ada", "ada@example.com")

	err := repo.Create(context.Background(), &User{
		Name: "Imposter", Email: "ADA@example.com", PasswordHash: "x", Status: StatusActive,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	repo := testRepository(t)
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListWithFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	seedUser(t, repo, "Ada", "ada@example.com")
	seedUser(t, repo, "Grace", "grace@example.com")
	seedUser(t, repo, "Alan", "alan@other.org")

	users, total, err := repo.List(ctx, ListFilter{Email: "example.com", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user on page, got %d", len(users))
	}

	users, total, err = repo.List(ctx, ListFilter{Name: "Ala", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Name != "Alan" {
		t.Errorf("expected only Alan, got total=%d users=%v", total, users)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	user := seedUser(t, repo, "Ada", "ada@example.com")

	user.Name = "Ada L."
	user.Roles = RoleList{"admin", "editor"}
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Ada L." || len(got.Roles) != 2 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	user := seedUser(t, repo, "Ada", "ada@example.com")

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestFindBySubject(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	user := seedUser(t, repo, "Ada", "ada@example.com", "admin")

	id, err := repo.FindBySubject(ctx, user.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Subject != user.ID.String() {
		t.Errorf("expected subject %q, got %q", user.ID.String(), id.Subject)
	}
	if id.PasswordHash == "" {
		t.Error("identity view must carry the stored digest for login checks")
	}

	if _, err := repo.FindBySubject(ctx, "not-a-uuid"); !errors.Is(err, auth.ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound for garbage subject, got %v", err)
	}
	if _, err := repo.FindBySubject(ctx, uuid.New().String()); !errors.Is(err, auth.ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound for unknown subject, got %v", err)
	}
}

func TestRoleListRoundTrip(t *testing.T) {
	v, err := RoleList{"admin", "editor"}.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var scanned RoleList
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "admin" {
		t.Errorf("expected [admin editor], got %v", scanned)
	}

	var empty RoleList
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("nil column should scan to empty list, got %v", empty)
	}
}
