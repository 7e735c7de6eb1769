package web

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/gm8-runtime/pkg/store"
)

func setupTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	s := store.New()
	h := New(s)
	app := fiber.New()
	h.Register(app)
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestSessionListEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	if !strings.Contains(html, "Sessions") {
		t.Error("expected Sessions heading in response")
	}
	if !strings.Contains(html, "No sessions yet") {
		t.Error("expected empty state message")
	}
}

func TestSessionListWithData(t *testing.T) {
	app, s := setupTestApp(t)

	sess := s.CreateSession()
	sess.Exec(context.Background(), "x = 1")
	sess.Exec(context.Background(), `x += "a"`)

	code, html := get(t, app, "/ui")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(html, "/ui/sessions/"+sess.ID) {
		t.Error("expected session link in response")
	}
	if !strings.Contains(html, "1 succeeded runs, 1 failed runs") {
		t.Error("expected run counts in response")
	}
}

func TestSessionDetail(t *testing.T) {
	app, s := setupTestApp(t)

	sess := s.CreateSession()
	sess.Exec(context.Background(), `greeting = "hello"`)
	sess.Exec(context.Background(), `greeting - 1`)

	code, html := get(t, app, "/ui/sessions/"+sess.ID)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, html)
	}
	for _, want := range []string{"greeting", "string", "SUCCEEDED", "FAILED", "invalid operands"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in response", want)
		}
	}
	// Newest run is listed first.
	if strings.Index(html, "FAILED") > strings.Index(html, "SUCCEEDED") {
		t.Error("expected newest run first")
	}
}

func TestSessionDetailNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	code, html := get(t, app, "/ui/sessions/missing")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(html, "Session &#39;missing&#39; not found") {
		t.Errorf("expected not found message, got %s", html)
	}
}

func TestRootRedirect(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/ui" {
		t.Errorf("expected redirect to /ui, got %s", loc)
	}
}

func TestTemplateHelpers(t *testing.T) {
	if got := shortID("1b4e28ba-2fa1-11d2-883f-0016d3cca427"); got != "1b4e28ba" {
		t.Errorf("shortID = %s", got)
	}
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %s", got)
	}
	if got := countLines("a\nb"); got != 2 {
		t.Errorf("countLines = %d", got)
	}
	if got := timeAgo(time.Now().Add(-2 * time.Hour)); got != "2 hours ago" {
		t.Errorf("timeAgo = %s", got)
	}
	start := time.Now()
	if got := duration(start, start.Add(1500*time.Millisecond)); got != "1.5s" {
		t.Errorf("duration = %s", got)
	}
	if got := stateClass(store.RunFailed); got != "state-failed" {
		t.Errorf("stateClass = %s", got)
	}
}
