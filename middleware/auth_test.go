package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/db/memory"
	"github.com/hostel5/portal-be/model"
)

type fakeVerifier struct {
	tokens map[string]string
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{UID: uid}, nil
}

type fixture struct {
	db       *memory.MemoryDB
	verifier *fakeVerifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mdb := memory.New()
	ctx := context.Background()
	if err := mdb.CreateProfile(ctx, &model.Profile{Id: "approved-member", FullName: "Asha", IsApproved: true}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := mdb.CreateProfile(ctx, &model.Profile{Id: "pending-member", FullName: "Bala"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := mdb.CreateProfile(ctx, &model.Profile{Id: "steward", FullName: "Chitra", IsApproved: true}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := mdb.SetRole(ctx, "steward", model.RoleSteward); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return &fixture{
		db: mdb,
		verifier: &fakeVerifier{tokens: map[string]string{
			"token-approved": "approved-member",
			"token-pending":  "pending-member",
			"token-steward":  "steward",
		}},
	}
}

func (f *fixture) router(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/protected", chain...)
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenAuthRejectsMissingHeader(t *testing.T) {
	f := newFixture(t)
	r := f.router(GenAuth(f.db, f.verifier, &AuthConfig{}))
	if w := request(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}
}

func TestGenAuthRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	r := f.router(GenAuth(f.db, f.verifier, &AuthConfig{}))
	if w := request(r, "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}
}

func TestGenAuthRequiresProfile(t *testing.T) {
	f := newFixture(t)
	f.verifier.tokens["token-fresh"] = "no-profile-yet"
	r := f.router(GenAuth(f.db, f.verifier, &AuthConfig{}))
	if w := request(r, "token-fresh"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a profile, got %v", w.Code)
	}

	// the signup path must let the same session through
	relaxed := f.router(GenAuth(f.db, f.verifier, &AuthConfig{ProfileNotRequired: true}))
	if w := request(relaxed, "token-fresh"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with ProfileNotRequired, got %v", w.Code)
	}
}

func TestRequireApprovedBlocksPending(t *testing.T) {
	f := newFixture(t)
	r := f.router(GenAuth(f.db, f.verifier, &AuthConfig{}), RequireApproved())

	if w := request(r, "token-pending"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a pending member, got %v", w.Code)
	}
	if w := request(r, "token-approved"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an approved member, got %v", w.Code)
	}
}

func TestRequireStewardBlocksMembers(t *testing.T) {
	f := newFixture(t)
	r := f.router(GenAuth(f.db, f.verifier, &AuthConfig{}), RequireSteward())

	if w := request(r, "token-approved"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a member, got %v", w.Code)
	}
	if w := request(r, "token-steward"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a steward, got %v", w.Code)
	}
}

func TestSessionNotRequiredAllowsAnonymous(t *testing.T) {
	f := newFixture(t)
	var userId string
	r := f.router(
		GenAuth(f.db, f.verifier, &AuthConfig{SessionNotRequired: true, ProfileNotRequired: true}),
		func(c *gin.Context) {
			userId = GetUserIdMaybe(c)
		})
	if w := request(r, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 anonymous, got %v", w.Code)
	}
	if userId != "" {
		t.Fatalf("expected empty user id for anonymous, got %q", userId)
	}

	// a malformed header degrades to anonymous the same way a missing one does
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "garbage-no-bearer")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for malformed header with optional session, got %v", w.Code)
	}
	if userId != "" {
		t.Fatalf("expected empty user id for malformed header, got %q", userId)
	}
}
