package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "text/plain", body)
	})
	return r
}

func TestSanitizeNestedJSON(t *testing.T) {
	r := echoRouter(SanitizeAndCleanInputMiddleware())

	in := `{"name":"<b>Asha</b>","amount":2500,"tags":["<script>x</script>ok"],"author":{"bio":"<img src=x onerror=alert(1)>Hi"}}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(in))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out struct {
		Name   string          `json:"name"`
		Amount json.Number     `json:"amount"`
		Tags   []string        `json:"tags"`
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if out.Name != "Asha" || out.Amount != "2500" || out.Tags[0] != "ok" {
		t.Errorf("got %+v", out)
	}
	if bytes.Contains(out.Author, []byte("onerror")) {
		t.Errorf("nested markup kept: %s", out.Author)
	}
}

func TestSanitizeKeepsEntitiesRaw(t *testing.T) {
	r := echoRouter(SanitizeAndCleanInputMiddleware())

	in := `{"email":"d'souza@example.org","org":"R&D Labs","url":"https://cdn.test/a.pdf?x=1&y=2"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(in))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	want := map[string]string{
		"email": "d'souza@example.org",
		"org":   "R&D Labs",
		"url":   "https://cdn.test/a.pdf?x=1&y=2",
	}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("%s = %q, want %q", k, out[k], v)
		}
	}
}

func TestSanitizeSkipsMultipartAndGet(t *testing.T) {
	r := echoRouter(SanitizeAndCleanInputMiddleware())

	raw := "--x\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\n<b>t</b>\r\n--x--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(raw))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != raw {
		t.Errorf("multipart body changed: %q", w.Body.String())
	}
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	r := echoRouter(SanitizeAndCleanInputMiddleware())
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAuthAndRole(t *testing.T) {
	const secret = "jwt-test"
	r := echoRouter(AuthMiddleware(secret), RequireRole("admin"))
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{"role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no role", "Bearer " + signed(t, secret, jwt.MapClaims{"email": "a@b.c", "exp": exp}), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "author", "exp": exp}), http.StatusForbidden},
		{"admin", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "admin", "exp": exp}), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("request id = %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("no request id generated")
	}
}
