package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	v := Verifier{Secret: []byte("secret"), Issuer: "pokerleague"}
	tok, err := v.Sign("alice", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.Subject != "alice" || c.Role != RoleAdmin {
		t.Fatalf("claims=%+v", c)
	}
	other := Verifier{Secret: []byte("other"), Issuer: "pokerleague"}
	if _, err := other.Verify(tok); err == nil {
		t.Fatalf("expected wrong-secret failure")
	}
	wrongIssuer := Verifier{Secret: []byte("secret"), Issuer: "elsewhere"}
	if _, err := wrongIssuer.Verify(tok); err == nil {
		t.Fatalf("expected issuer mismatch")
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := &Verifier{Secret: []byte("secret")}
	r := gin.New()
	r.POST("/x", RequireAdmin(v), func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); !ok {
			t.Fatalf("claims missing")
		}
		c.Status(http.StatusNoContent)
	})

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(""); code != http.StatusUnauthorized {
		t.Fatalf("no token code=%d want=401", code)
	}
	viewer, _ := v.Sign("bob", "viewer", time.Hour)
	if code := do("Bearer " + viewer); code != http.StatusForbidden {
		t.Fatalf("viewer code=%d want=403", code)
	}
	admin, _ := v.Sign("alice", RoleAdmin, time.Hour)
	if code := do("bearer " + admin); code != http.StatusNoContent {
		t.Fatalf("admin code=%d want=204", code)
	}
}

func TestRequireAdminDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireAdmin(nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d want=200", w.Code)
	}
}
