package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notesapp/notes-api/internal/core/domain"
	"github.com/notesapp/notes-api/internal/core/ports"
)

type stubAuthService struct {
	createUserFn   func(ctx context.Context, in ports.CreateUserInput) (ports.UserOutput, error)
	authenticateFn func(ctx context.Context, in ports.AuthenticateInput) (ports.AuthenticateOutput, error)
	getUserFn      func(ctx context.Context, token string) (domain.User, error)
	updateUserFn   func(ctx context.Context, current domain.User, in ports.UpdateUserInput) (ports.UserOutput, error)
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (ports.UserOutput, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, in ports.AuthenticateInput) (ports.AuthenticateOutput, error) {
	return s.authenticateFn(ctx, in)
}

func (s *stubAuthService) GetUserFromToken(ctx context.Context, token string) (domain.User, error) {
	return s.getUserFn(ctx, token)
}

func (s *stubAuthService) UpdateUser(ctx context.Context, current domain.User, in ports.UpdateUserInput) (ports.UserOutput, error) {
	return s.updateUserFn(ctx, current, in)
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	id := uuid.New()
	stub := &stubAuthService{
		createUserFn: func(_ context.Context, in ports.CreateUserInput) (ports.UserOutput, error) {
			if in.Email != "a@b.com" || in.Password != "pw123456" || in.FirstName != "A" || in.LastName != "B" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return ports.UserOutput{ID: id, Email: in.Email, FirstName: "A", LastName: "B", CreatedAt: testNow, UpdatedAt: testNow}, nil
		},
	}
	h := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"a@b.com","password":"pw123456","password_confirmation":"pw123456","first_name":"A","last_name":"B"}`)
	rec := httptest.NewRecorder()

	if err := h.Signup(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != id.String() || resp["email"] != "a@b.com" || resp["first_name"] != "A" || resp["last_name"] != "B" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password leaked in response")
	}
	if resp["created_at"] != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected created_at: %v", resp["created_at"])
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	stub := &stubAuthService{
		createUserFn: func(context.Context, ports.CreateUserInput) (ports.UserOutput, error) {
			t.Fatalf("service must not be called")
			return ports.UserOutput{}, nil
		},
	}
	h := NewAuthHandler(stub)

	tests := map[string]string{
		"mismatched confirmation": `{"email":"a@b.com","password":"pw1","password_confirmation":"pw2","first_name":"A","last_name":"B"}`,
		"bad email":               `{"email":"nope","password":"pw","password_confirmation":"pw","first_name":"A","last_name":"B"}`,
		"missing last name":       `{"email":"a@b.com","password":"pw","password_confirmation":"pw","first_name":"A"}`,
		"malformed json":          `{"email":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			rec := httptest.NewRecorder()
			err := h.Signup(e.NewContext(jsonRequest(http.MethodPost, "/auth/signup", body), rec))
			expectStatus(t, err, http.StatusUnprocessableEntity)
		})
	}
}

func TestAuthHandler_Signup_ServiceError(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		createUserFn: func(context.Context, ports.CreateUserInput) (ports.UserOutput, error) {
			return ports.UserOutput{}, domain.ErrEmailAlreadyExists
		},
	}
	h := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/auth/signup",
		`{"email":"a@b.com","password":"pw","password_confirmation":"pw","first_name":"A","last_name":"B"}`)
	err := h.Signup(e.NewContext(req, httptest.NewRecorder()))
	if err != domain.ErrEmailAlreadyExists {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAuthHandler_Token(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, in ports.AuthenticateInput) (ports.AuthenticateOutput, error) {
			if in.Email != "a@b.com" || in.Password != "pw123456" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return ports.AuthenticateOutput{AccessToken: "tok", TokenType: "Bearer"}, nil
		},
	}
	h := NewAuthHandler(stub)

	form := url.Values{"username": {"a@b.com"}, "password": {"pw123456"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	if err := h.Token(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "tok" || resp.TokenType != "Bearer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Token_MissingField(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("username=a%40b.com"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	err := h.Token(e.NewContext(req, httptest.NewRecorder()))
	expectStatus(t, err, http.StatusUnprocessableEntity)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	current := domain.User{ID: uuid.New(), Email: "a@b.com", FirstName: "A", LastName: "B"}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, in ports.UpdateUserInput)
	}{
		{
			name:       "first name only",
			body:       `{"first_name":"Ada"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in ports.UpdateUserInput) {
				if in.FirstName == nil || *in.FirstName != "Ada" || in.Email != nil || in.Password != nil || in.LastName != nil {
					t.Fatalf("unexpected input: %+v", in)
				}
			},
		},
		{
			name:       "password with confirmation",
			body:       `{"password":"n3w","password_confirmation":"n3w"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in ports.UpdateUserInput) {
				if in.Password == nil || *in.Password != "n3w" {
					t.Fatalf("unexpected input: %+v", in)
				}
			},
		},
		{name: "password without confirmation", body: `{"password":"n3w"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "mismatched confirmation", body: `{"password":"n3w","password_confirmation":"old"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad email", body: `{"email":"nope"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "empty first name", body: `{"first_name":""}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubAuthService{
				updateUserFn: func(_ context.Context, got domain.User, in ports.UpdateUserInput) (ports.UserOutput, error) {
					if got.ID != current.ID {
						t.Fatalf("unexpected current user %s", got.ID)
					}
					tt.check(t, in)
					return ports.NewUserOutput(got), nil
				},
			}
			h := NewAuthHandler(stub)

			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/auth/profile", tt.body), rec)
			c.Set("current_user", current)

			err := h.UpdateProfile(c)
			if tt.wantStatus != http.StatusOK {
				expectStatus(t, err, tt.wantStatus)
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_GetProfile_RequiresUser(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	err := h.GetProfile(e.NewContext(req, httptest.NewRecorder()))
	expectStatus(t, err, http.StatusUnauthorized)
}
