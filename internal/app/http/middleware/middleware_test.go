package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"thangka-gallery/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func withSecret(t *testing.T) {
	t.Helper()
	prev := config.App
	config.App.JWTSecret = testSecret
	t.Cleanup(func() { config.App = prev })
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func sessionRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(LoadSession())
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id"), "role": c.GetString("role")})
	})
	r.GET("/x", handlers...)
	return r
}

func TestLoadSessionFromCookieAndHeader(t *testing.T) {
	withSecret(t)
	tok := signed(t, testSecret, jwt.MapClaims{
		"user_id": 7, "username": "alice", "role": "user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	r := sessionRouter()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"user_id":7`) {
		t.Fatalf("cookie session body = %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"user_id":7`) {
		t.Fatalf("bearer session body = %s", w.Body.String())
	}
}

func TestLoadSessionIgnoresBadTokens(t *testing.T) {
	withSecret(t)
	expired := signed(t, testSecret, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	foreign := signed(t, "another-secret", jwt.MapClaims{"user_id": 7})
	noUser := signed(t, testSecret, jwt.MapClaims{"username": "ghost"})

	r := sessionRouter()
	for name, tok := range map[string]string{"expired": expired, "foreign": foreign, "no user": noUser, "garbage": "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user_id":0`) {
			t.Errorf("%s: code=%d body=%s", name, w.Code, w.Body.String())
		}
	}
}

func TestLoginRequiredRedirects(t *testing.T) {
	withSecret(t)
	r := sessionRouter(LoginRequired())

	req := httptest.NewRequest(http.MethodGet, "/x?tab=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("code = %d, want 302", w.Code)
	}
	want := "/login/?next=" + url.QueryEscape("/x?tab=2")
	if loc := w.Header().Get("Location"); loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}
}

func TestAuthMiddlewareAndRequireRole(t *testing.T) {
	withSecret(t)
	r := sessionRouter(AuthMiddleware(), RequireRole("admin"))

	cases := []struct {
		name  string
		token string
		code  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", signed(t, testSecret, jwt.MapClaims{"user_id": 1, "role": "user"}), http.StatusForbidden},
		{"admin", signed(t, testSecret, jwt.MapClaims{"user_id": 2, "role": "admin"}), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.code {
			t.Errorf("%s: code = %d, want %d", tc.name, w.Code, tc.code)
		}
	}
}

func TestToggleLimiter(t *testing.T) {
	l := NewToggleLimiter(0.001, 2)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-User"); uid == "1" {
			c.Set("user_id", uint(1))
		}
		c.Next()
	})
	r.POST("/t", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if hit("1") != 200 || hit("1") != 200 {
		t.Fatal("burst should allow two requests")
	}
	if code := hit("1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}
	// anonymous requests use their own bucket
	if code := hit(""); code != http.StatusOK {
		t.Fatalf("anonymous = %d, want 200", code)
	}
}

type fakeCounter struct {
	counts  map[string]int64
	expires int
	err     error
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCounter) Expire(ctx context.Context, key string, _ time.Duration) *redis.BoolCmd {
	f.expires++
	cmd := redis.NewBoolCmd(ctx, "expire", key)
	cmd.SetVal(true)
	return cmd
}

func quotaRouter(client RateCounter) *gin.Engine {
	r := gin.New()
	r.POST("/contact/", RequireSubmitQuota(client, "contact", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusSeeOther)
	})
	return r
}

func post(r http.Handler, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w.Code
}

func TestSubmitQuota(t *testing.T) {
	fc := &fakeCounter{counts: map[string]int64{}}
	r := quotaRouter(fc)

	for i := 0; i < 2; i++ {
		if code := post(r, "/contact/"); code != http.StatusSeeOther {
			t.Fatalf("submit %d = %d", i+1, code)
		}
	}
	if code := post(r, "/contact/"); code != http.StatusTooManyRequests {
		t.Fatalf("over quota = %d, want 429", code)
	}
	if fc.expires != 1 {
		t.Fatalf("expire calls = %d, want 1 (first increment only)", fc.expires)
	}
}

func TestSubmitQuotaFailsOpen(t *testing.T) {
	if code := post(quotaRouter(nil), "/contact/"); code != http.StatusSeeOther {
		t.Fatalf("nil client = %d", code)
	}
	down := &fakeCounter{counts: map[string]int64{}, err: errors.New("connection refused")}
	for i := 0; i < 5; i++ {
		if code := post(quotaRouter(down), "/contact/"); code != http.StatusSeeOther {
			t.Fatalf("redis down = %d, want request through", code)
		}
	}
}

func TestSanitizeForm(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/f", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", c.PostForm("name"), c.PostForm("password"))
	})

	form := url.Values{
		"name":     {`<script>alert(1)</script>Tom & <b>Jerry</b>`},
		"password": {"<p>secret</p>"},
	}
	req := httptest.NewRequest(http.MethodPost, "/f", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != "Tom &amp; Jerry|<p>secret</p>" {
		t.Fatalf("body = %q, want cleaned name and untouched password", got)
	}
}

func TestSanitizeFormEncodedMarkup(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/f", func(c *gin.Context) {
		c.String(http.StatusOK, "%s", c.PostForm("message"))
	})

	form := url.Values{"message": {"&lt;script&gt;alert(1)&lt;/script&gt;hi"}}
	req := httptest.NewRequest(http.MethodPost, "/f", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Body.String()
	if strings.Contains(got, "<script") || strings.Contains(got, "&lt;script") {
		t.Fatalf("body = %q, encoded script survived", got)
	}
	if got != "hi" {
		t.Fatalf("body = %q, want %q", got, "hi")
	}
}

func TestSanitizeJSON(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/j", func(c *gin.Context) {
		var in struct {
			Message string `json:"message"`
			Count   int    `json:"count"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, in)
	})

	req := httptest.NewRequest(http.MethodPost, "/j", strings.NewReader(`{"message":"<i>hi</i> there","count":3}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != `{"message":"hi there","count":3}` {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/j", strings.NewReader(`{broken`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON = %d, want 400", w.Code)
	}
}
