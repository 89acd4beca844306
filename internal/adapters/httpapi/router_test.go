package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chirp/internal/core/apperr"
	postPort "chirp/internal/ports/post"
	userPort "chirp/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

// --- stubs ---

type stubPostUC struct {
	createFn     func(ctx context.Context, authorID, content string) (*postPort.PostDTO, error)
	getAllFn     func(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error)
	byAuthorFn   func(ctx context.Context, authorID string) ([]*postPort.PostWithAuthorDTO, error)
	byIDFn       func(ctx context.Context, id string) (*postPort.PostWithAuthorDTO, error)
	gotAuthorID  string
	gotContent   string
}

func (s *stubPostUC) CreatePost(ctx context.Context, authorID, content string) (*postPort.PostDTO, error) {
	s.gotAuthorID, s.gotContent = authorID, content
	if s.createFn != nil {
		return s.createFn(ctx, authorID, content)
	}
	return &postPort.PostDTO{ID: "post-1", AuthorID: authorID, Content: content, CreatedAt: time.Now()}, nil
}

func (s *stubPostUC) GetAll(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error) {
	if s.getAllFn != nil {
		return s.getAllFn(ctx)
	}
	return []*postPort.PostWithAuthorDTO{}, nil
}

func (s *stubPostUC) GetPostsByAuthorID(ctx context.Context, authorID string) ([]*postPort.PostWithAuthorDTO, error) {
	s.gotAuthorID = authorID
	if s.byAuthorFn != nil {
		return s.byAuthorFn(ctx, authorID)
	}
	return []*postPort.PostWithAuthorDTO{}, nil
}

func (s *stubPostUC) GetPostByID(ctx context.Context, id string) (*postPort.PostWithAuthorDTO, error) {
	if s.byIDFn != nil {
		return s.byIDFn(ctx, id)
	}
	return nil, apperr.New(apperr.KindNotFound, "post not found")
}

type stubProfileUC struct {
	fn func(ctx context.Context, username string) (*userPort.ProfileDTO, error)
}

func (s *stubProfileUC) GetUserByUsername(ctx context.Context, username string) (*userPort.ProfileDTO, error) {
	if s.fn != nil {
		return s.fn(ctx, username)
	}
	return nil, apperr.New(apperr.KindNotFound, "profile does not exist")
}

func newRouter(postUC PostUseCase, profileUC ProfileUseCase) *gin.Engine {
	return SetupRoutes(postUC, profileUC, RouterConfig{JWTSecret: testSecret})
}

func signToken(t *testing.T, secret []byte, sub string, ttl time.Duration) string {
	t.Helper()
	claims := &jwt.StandardClaims{
		Subject:   sub,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body %q: %v", w.Body.String(), err)
	}
	return body
}

// --- feed routes ---

func TestGetAll_OK(t *testing.T) {
	uc := &stubPostUC{
		getAllFn: func(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error) {
			return []*postPort.PostWithAuthorDTO{
				{
					Post:   &postPort.PostDTO{ID: "post-2", AuthorID: "user_b", Content: "🚀"},
					Author: &userPort.ProfileDTO{ID: "user_b", Username: "bob"},
				},
			}, nil
		},
	}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"post-2"`) || !strings.Contains(w.Body.String(), `"bob"`) {
		t.Errorf("body = %s, want post-2 by bob", w.Body.String())
	}
}

func TestGetAll_Transient_503(t *testing.T) {
	uc := &stubPostUC{
		getAllFn: func(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error) {
			return nil, apperr.New(apperr.KindTransient, "post store unavailable")
		},
	}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if body := decodeErrorBody(t, w); body["code"] != "TRANSIENT" {
		t.Errorf("code = %q, want TRANSIENT", body["code"])
	}
}

func TestGetAll_Internal_500_GenericMessage(t *testing.T) {
	uc := &stubPostUC{
		getAllFn: func(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error) {
			return nil, apperr.New(apperr.KindInternal, "post author could not be resolved")
		},
	}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body["code"] != "INTERNAL" {
		t.Errorf("code = %q, want INTERNAL", body["code"])
	}
	// the inconsistency detail stays in the logs
	if body["message"] != "internal error" {
		t.Errorf("message = %q, want generic", body["message"])
	}
}

func TestGetPostByID_NotFound_404(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/nonexistent-id", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body := decodeErrorBody(t, w); body["code"] != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body["code"])
	}
}

func TestGetPostsByUserID_PassesParam(t *testing.T) {
	uc := &stubPostUC{}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/user_b/posts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if uc.gotAuthorID != "user_b" {
		t.Errorf("authorID = %q, want user_b", uc.gotAuthorID)
	}
}

// --- creation route ---

func TestCreatePost_NoToken_401(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"🔥"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreatePost_OK_201(t *testing.T) {
	uc := &stubPostUC{}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"🔥🔥"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user_123", time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s, want 201", w.Code, w.Body.String())
	}
	if uc.gotAuthorID != "user_123" {
		t.Errorf("authorID = %q, want token subject user_123", uc.gotAuthorID)
	}
	if uc.gotContent != "🔥🔥" {
		t.Errorf("content = %q, want 🔥🔥", uc.gotContent)
	}
}

func TestCreatePost_Validation_400(t *testing.T) {
	uc := &stubPostUC{
		createFn: func(ctx context.Context, authorID, content string) (*postPort.PostDTO, error) {
			return nil, apperr.New(apperr.KindValidation, "only emojis are allowed")
		},
	}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"not emojis"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user_123", time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeErrorBody(t, w); body["code"] != "VALIDATION" {
		t.Errorf("code = %q, want VALIDATION", body["code"])
	}
}

func TestCreatePost_RateLimited_429_WithRetryAfter(t *testing.T) {
	uc := &stubPostUC{
		createFn: func(ctx context.Context, authorID, content string) (*postPort.PostDTO, error) {
			return nil, apperr.RateLimited("too many posts, slow down", 30*time.Second)
		},
	}
	r := newRouter(uc, &stubProfileUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"🔥"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user_123", time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %q, want 30", got)
	}
	if body := decodeErrorBody(t, w); body["code"] != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", body["code"])
	}
}

func TestCreatePost_BadBody_400(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user_123", time.Hour))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// --- profile route ---

func TestGetUserByUsername_OK(t *testing.T) {
	uc := &stubProfileUC{
		fn: func(ctx context.Context, username string) (*userPort.ProfileDTO, error) {
			return &userPort.ProfileDTO{ID: "user_a", Username: username, ImageURL: "https://img.example/a"}, nil
		},
	}
	r := newRouter(&stubPostUC{}, uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/alice", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"alice"`) {
		t.Errorf("body = %s, want alice", w.Body.String())
	}
}

func TestGetUserByUsername_NotFound_404(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/nobody", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// --- operational routes ---

func TestHealthz(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter(&stubPostUC{}, &stubProfileUC{})

	// generate one observable request first
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "chirp_http_requests_total") {
		t.Errorf("metrics body missing chirp_http_requests_total")
	}
}
