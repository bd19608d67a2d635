package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

// captureMailer hands delivered tokens to the test instead of sending mail.
type captureMailer struct {
	tokens chan string
}

func (m *captureMailer) SendActivationEmail(ctx context.Context, user domain.User, token string) error {
	m.tokens <- token
	return nil
}

func (m *captureMailer) SendPasswordResetEmail(ctx context.Context, user domain.User, token string) error {
	m.tokens <- token
	return nil
}

// next waits for the fire-and-forget delivery goroutine to hand over a token.
func (m *captureMailer) next(t *testing.T) string {
	t.Helper()
	select {
	case token := <-m.tokens:
		return token
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mail delivery")
		return ""
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *captureMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &captureMailer{tokens: make(chan string, 8)}

	creds := &service.CredentialService{
		Store:  st,
		Mailer: mailer,
		Config: service.CredentialConfig{
			HashCost:    cryptox.MinCost,
			ResetWindow: 2 * time.Hour,
		},
	}
	users := &service.UserService{
		Store:       st,
		Credentials: creds,
		Mailer:      mailer,
		Rules: domain.ValidationRules{
			NameMaxLength:     50,
			EmailMaxLength:    255,
			PasswordMinLength: 6,
		},
	}

	router := NewRouter("test", st, slog.New(slog.DiscardHandler))
	router.UserService = users
	router.CredentialService = creds
	router.PostService = &service.PostService{Store: st}
	router.FeedService = &service.FeedService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mailer
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestSignupAndActivationFlow(t *testing.T) {
	srv, mailer := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/users", map[string]string{
		"name":     "Alice",
		"email":    "Alice@Example.COM",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "alice@example.com", body["email"])
	require.Equal(t, false, body["activated"])
	require.NotContains(t, body, "token")
	require.NotContains(t, body, "password_digest")

	token := mailer.next(t)

	// Wrong token is rejected without revealing anything.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/activations", map[string]string{
		"email": "alice@example.com",
		"token": "wrong-token",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/activations", map[string]string{
		"email": "alice@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["activated"])

	// Activation links are one-shot.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/activations", map[string]string{
		"email": "alice@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	srv, mailer := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/users", map[string]string{
		"name": "Alice", "email": "dup@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mailer.next(t)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/users", map[string]string{
		"name": "Bob", "email": "DUP@example.com", "password": "secret456",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	srv, mailer := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/users", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mailer.next(t) // discard the activation token

	// Unknown addresses get the same answer as known ones.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/password_resets", map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/password_resets", map[string]string{
		"email": "carol@example.com",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	token := mailer.next(t)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/v1/password_resets", map[string]string{
		"email": "carol@example.com", "token": "wrong-token", "password": "newsecret456",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/v1/password_resets", map[string]string{
		"email": "carol@example.com", "token": token, "password": "tiny",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/v1/password_resets", map[string]string{
		"email": "carol@example.com", "token": token, "password": "newsecret456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "password_updated", body["status"])

	// The token was consumed by the successful reset.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/v1/password_resets", map[string]string{
		"email": "carol@example.com", "token": token, "password": "another789",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPostsAndComments(t *testing.T) {
	srv, mailer := newTestServer(t)

	resp, author := doJSON(t, http.MethodPost, srv.URL+"/v1/users", map[string]string{
		"name": "Dave", "email": "dave@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mailer.next(t)

	resp, post := doJSON(t, http.MethodPost, srv.URL+"/v1/posts", map[string]string{
		"user_id": author["id"].(string), "title": "Hello", "body": "World",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	postID := post["id"].(string)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/posts/"+postID+"/comments", map[string]string{
		"user_id": author["id"].(string), "body": "First!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/posts/"+postID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/posts/missing/comments", map[string]string{
		"user_id": author["id"].(string), "body": "hello?",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/livez", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}
