package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
)

type stubCategoryService struct {
	createFn func(ctx context.Context, in ports.CreateCategoryInput) (ports.CategoryOutput, error)
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, in ports.CreateCategoryInput) (ports.CategoryOutput, error) {
	return s.createFn(ctx, in)
}

func TestCategoryHandler_Create(t *testing.T) {
	e := newEcho()
	owner := domain.User{ID: uuid.New()}
	catID := uuid.New()
	stub := &stubCategoryService{
		createFn: func(_ context.Context, in ports.CreateCategoryInput) (ports.CategoryOutput, error) {
			if in.UserID != owner.ID || in.Name != "work" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return ports.CategoryOutput{ID: catID, Name: in.Name, CreatedAt: testNow, UpdatedAt: testNow}, nil
		},
	}
	h := NewCategoryHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/categories/", `{"name":"work"}`), rec)
	c.Set("current_user", owner)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != catID.String() || resp["name"] != "work" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["user_id"]; ok {
		t.Fatalf("user_id must not be exposed")
	}
}

func TestCategoryHandler_Create_Validation(t *testing.T) {
	h := NewCategoryHandler(&stubCategoryService{
		createFn: func(context.Context, ports.CreateCategoryInput) (ports.CategoryOutput, error) {
			t.Fatalf("service must not be called")
			return ports.CategoryOutput{}, nil
		},
	})

	for _, body := range []string{`{}`, `{"name":""}`, `{"name":"` + strings.Repeat("x", 256) + `"}`} {
		e := newEcho()
		c := e.NewContext(jsonRequest(http.MethodPost, "/categories/", body), httptest.NewRecorder())
		c.Set("current_user", domain.User{ID: uuid.New()})

		expectStatus(t, h.Create(c), http.StatusUnprocessableEntity)
	}
}
