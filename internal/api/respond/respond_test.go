package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thangka-gallery/internal/domain/errs"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{errs.ErrNotFound, http.StatusNotFound, "Not found"},
		{fmt.Errorf("load artwork: %w", errs.ErrForbidden), http.StatusForbidden, "Access denied"},
		{fmt.Errorf("%w: cannot follow yourself", errs.ErrInvalidOperation), http.StatusBadRequest, "cannot follow yourself"},
		{errs.NewValidation("title", "This field is required."), http.StatusBadRequest, "validation failed"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Error(c, tc.err)

		if w.Code != tc.code {
			t.Errorf("%v: code = %d, want %d", tc.err, w.Code, tc.code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "error" || body["message"] != tc.message {
			t.Errorf("%v: body = %v", tc.err, body)
		}
	}
}

type signup struct {
	Email       string `form:"email" binding:"required,email"`
	Username    string `form:"username" binding:"required,min=3"`
	YearCreated int    `binding:"max=3000"`
}

func TestBindError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=nope&username=ab&YearCreated=4000"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in signup
	err := c.ShouldBind(&in)
	if err == nil {
		t.Fatal("expected binding error")
	}
	verr := BindError(err)
	want := map[string]string{
		"email":        "Enter a valid email address.",
		"username":     "Ensure this value has at least 3 characters.",
		"year_created": "Ensure this value is less than or equal to 3000.",
	}
	for k, msg := range want {
		if verr.Fields[k] != msg {
			t.Errorf("field %s = %q, want %q", k, verr.Fields[k], msg)
		}
	}

	if got := BindError(errors.New("unexpected EOF")); got.Fields["__all__"] == "" {
		t.Errorf("non-validator error fields = %v", got.Fields)
	}
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"YearCreated": "year_created",
		"ArtworkID":   "artwork_id",
		"Email":       "email",
		"userID":      "user_id",
	} {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
