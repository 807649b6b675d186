package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliphive/clip_api/shared"
	"github.com/cliphive/clip_api/throttle"
)

type fixedClock struct {
	at time.Time
}

func (fc *fixedClock) now() time.Time {
	return fc.at
}

func (fc *fixedClock) advance(d time.Duration) {
	fc.at = fc.at.Add(d)
}

func newThrottledApp(t *testing.T, rates map[string]string, scopes ...string) (*fiber.App, *fixedClock) {
	t.Helper()

	clock := &fixedClock{at: time.Unix(1_700_000_000, 0)}
	ins := throttle.NewInspectorAt(throttle.LoadConfig(rates), throttle.NewMemoryStore(), clock.now)

	app := fiber.New(fiber.Config{
		JSONEncoder: shared.JSONEncoder,
		JSONDecoder: shared.JSONDecoder,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return shared.ResponseAppError(c, shared.TranslateError(err, false))
		},
	})
	app.Use(RequestContext())

	handler := ThrottleHandler(func() *throttle.Inspector { return ins }, scopes...)
	app.Get("/api/v1/videos", handler, func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, "feed")
	})

	return app, clock
}

func doGet(t *testing.T, app *fiber.App) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("User-Agent", "test-client/1.0")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	return resp, body
}

func TestThrottleHandler_BlocksOverLimit(t *testing.T) {
	app, _ := newThrottledApp(t, map[string]string{"anon": "2/minute"}, "anon")

	resp, _ := doGet(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-anon-Remaining"))

	resp, _ = doGet(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-anon-Remaining"))

	resp, body := doGet(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-anon-Remaining"))
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	assert.Equal(t, shared.StatusFailed, body["status"])
	assert.Contains(t, body["message"], "Request was throttled")

	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	record := errs[0].(map[string]interface{})
	assert.Equal(t, shared.CodeRateLimitExceeded, record["code"])
	assert.Equal(t, "none", record["field"])
}

func TestThrottleHandler_RecoversAfterWindow(t *testing.T) {
	app, clock := newThrottledApp(t, map[string]string{"anon": "2/minute"}, "anon")

	doGet(t, app)
	doGet(t, app)
	resp, _ := doGet(t, app)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	clock.advance(61 * time.Second)

	resp, _ = doGet(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestThrottleHandler_SeparatesClients(t *testing.T) {
	app, _ := newThrottledApp(t, map[string]string{"anon": "1/minute"}, "anon")

	resp, _ := doGet(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doGet(t, app)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// A different user agent hashes to a different fingerprint, so it has
	// its own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	req.Header.Set("User-Agent", "other-client/2.0")
	other, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, other.StatusCode)
}

func TestThrottleHandler_UnconfiguredScopePassesThrough(t *testing.T) {
	app, _ := newThrottledApp(t, map[string]string{"anon": "1/minute"}, "burst")

	for i := 0; i < 5; i++ {
		resp, _ := doGet(t, app)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestThrottleHandler_RateLimitMetaInEnvelope(t *testing.T) {
	app, _ := newThrottledApp(t, map[string]string{"anon": "2/minute"}, "anon")

	_, body := doGet(t, app)

	meta := body["meta"].(map[string]interface{})
	rateLimit, ok := meta["rate_limit"].([]interface{})
	require.True(t, ok)
	require.Len(t, rateLimit, 1)

	entry := rateLimit[0].(map[string]interface{})
	assert.Equal(t, "anon", entry["type"])
}

func TestThrottleHandler_NilInspectorPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Get("/x", ThrottleHandler(func() *throttle.Inspector { return nil }, "anon"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
