package auth

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"thangka-gallery/config"
	"thangka-gallery/internal/app/http/middleware"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/logging"
	"thangka-gallery/internal/testutil"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	r := gin.New()
	r.POST("/register/", Register)
	r.POST("/login/", Login)
	r.GET("/logout/", Logout)
	r.POST("/password-reset/", RequestPasswordReset)
	r.POST("/password-reset/confirm/", ResetPassword)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestSafeNext(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/artist/"},
		{"/chat/?user=3", "/chat/?user=3"},
		{"//evil.example", "/artist/"},
		{"https://evil.example/x", "/artist/"},
		{`/\evil.example`, "/artist/"},
		{"relative/path", "/artist/"},
	}
	for _, tc := range cases {
		if got := SafeNext(tc.in, DefaultLoginNext); got != tc.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsPasswordStrong(t *testing.T) {
	cases := []struct {
		pw   string
		want bool
	}{
		{"short1", false},
		{"longenough", false},
		{"12345678", false},
		{"tara2024ok", true},
	}
	for _, tc := range cases {
		if got := isPasswordStrong(tc.pw); got != tc.want {
			t.Errorf("isPasswordStrong(%q) = %v", tc.pw, got)
		}
	}
}

func TestRegisterThenLogin(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newRouter()

	w := postForm(r, "/register/", url.Values{
		"username":  {"alice"},
		"email":     {"alice@example.com"},
		"password1": {"lotus2024"},
		"password2": {"lotus2024"},
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login/" {
		t.Fatalf("register: code=%d location=%q body=%s", w.Code, w.Header().Get("Location"), w.Body.String())
	}

	var u users.User
	if err := db.Where("username = ?", "alice").First(&u).Error; err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Password == nil || *u.Password == "lotus2024" {
		t.Fatal("password must be stored hashed")
	}
	var a artists.Artist
	if err := db.Where("user_id = ?", u.ID).First(&a).Error; err != nil {
		t.Fatalf("artist profile not created: %v", err)
	}

	w = postForm(r, "/login/", url.Values{"username": {"alice"}, "password": {"wrong1234"}})
	if w.Code != http.StatusBadRequest || sessionCookie(w) != nil {
		t.Fatalf("bad password: code=%d", w.Code)
	}

	w = postForm(r, "/login/", url.Values{"username": {"alice"}, "password": {"lotus2024"}, "next": {"/chat/?user=2"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/chat/?user=2" {
		t.Fatalf("login: code=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	ck := sessionCookie(w)
	if ck == nil || !ck.HttpOnly {
		t.Fatalf("session cookie = %+v", ck)
	}
	s, err := middleware.ParseToken(ck.Value)
	if err != nil || s.UserID != u.ID || s.Username != "alice" || s.Role != users.RoleUser {
		t.Fatalf("session = %+v, %v", s, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CreateUser(t, db, "taken")
	r := newRouter()

	cases := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"duplicate", url.Values{"username": {"taken"}, "password1": {"lotus2024"}, "password2": {"lotus2024"}}, `"username"`},
		{"weak", url.Values{"username": {"bob"}, "password1": {"password"}, "password2": {"password"}}, `"password1"`},
		{"mismatch", url.Values{"username": {"bob"}, "password1": {"lotus2024"}, "password2": {"lotus2025"}}, `"password2"`},
		{"bad name", url.Values{"username": {"bob smith"}, "password1": {"lotus2024"}, "password2": {"lotus2024"}}, `"username"`},
		{"missing", url.Values{"username": {"bob"}}, `"password1"`},
	}
	for _, tc := range cases {
		w := postForm(r, "/register/", tc.form)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), tc.field) {
			t.Errorf("%s: code=%d body=%s", tc.name, w.Code, w.Body.String())
		}
	}

	var n int64
	db.Model(&users.User{}).Count(&n)
	if n != 1 {
		t.Fatalf("users = %d, want only the seeded one", n)
	}
}

type captureMailer struct {
	to, link string
}

func (m *captureMailer) SendPasswordReset(to, link string) error {
	m.to, m.link = to, link
	return nil
}

func TestPasswordResetFlow(t *testing.T) {
	testutil.SetupDB(t)
	r := newRouter()

	prev := Mailer
	mail := &captureMailer{}
	Mailer = mail
	t.Cleanup(func() { Mailer = prev })

	postForm(r, "/register/", url.Values{
		"username": {"carol"}, "email": {"carol@example.com"},
		"password1": {"lotus2024"}, "password2": {"lotus2024"},
	})

	w := postForm(r, "/password-reset/", url.Values{"email": {"nobody@example.com"}})
	if w.Code != http.StatusOK || mail.link != "" {
		t.Fatalf("unknown email: code=%d link=%q", w.Code, mail.link)
	}

	w = postForm(r, "/password-reset/", url.Values{"email": {"Carol@Example.com"}})
	if w.Code != http.StatusOK || mail.to != "carol@example.com" {
		t.Fatalf("reset request: code=%d to=%q", w.Code, mail.to)
	}
	link, err := url.Parse(mail.link)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	token := link.Query().Get("token")

	w = postForm(r, "/password-reset/confirm/", url.Values{
		"token": {token}, "new_password1": {"mandala99"}, "new_password2": {"mandala99"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: code=%d body=%s", w.Code, w.Body.String())
	}

	// the token is single use
	w = postForm(r, "/password-reset/confirm/", url.Values{
		"token": {token}, "new_password1": {"mandala99"}, "new_password2": {"mandala99"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reused token: code=%d", w.Code)
	}

	w = postForm(r, "/login/", url.Values{"username": {"carol"}, "password": {"mandala99"}})
	if w.Code != http.StatusSeeOther || sessionCookie(w) == nil {
		t.Fatalf("login with new password: code=%d", w.Code)
	}
}

func TestResetLinkStaysOutOfInfoLogs(t *testing.T) {
	testutil.SetupDB(t)
	config.App.SMTP = config.SMTPConfig{}

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Output: io.Discard}) })

	link := "http://localhost:8080/password-reset/confirm/?token=s3cr3t-token"
	if err := (defaultMailer{}).SendPasswordReset("carol@example.com", link); err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "s3cr3t-token") {
		t.Fatalf("reset token leaked at info level: %s", out)
	}
	if !strings.Contains(out, "carol@example.com") {
		t.Fatalf("expected a warning naming the recipient, got %q", out)
	}

	// debug level is for local development and may show the link
	buf.Reset()
	logging.Init(logging.Config{Level: "debug", Output: &buf})
	if err := (defaultMailer{}).SendPasswordReset("carol@example.com", link); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "s3cr3t-token") {
		t.Fatalf("debug output missing link: %s", buf.String())
	}
}
