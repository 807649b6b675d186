package shared

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

	"github.com/cliphive/clip_api/throttle"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, map[string]interface{}) {
	t.Helper()

	app := fiber.New(fiber.Config{
		JSONEncoder: JSONEncoder,
		JSONDecoder: JSONDecoder,
	})
	app.Get("/test", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	return resp, body
}

func TestResponseJSON_EnvelopeShape(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ResponseJSON(c, http.StatusOK, "Success", map[string]string{"ping": "pong"})
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, key := range []string{"status", "status_code", "message", "data", "errors", "meta"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, StatusSucceeded, body["status"])
	assert.Equal(t, "Success", body["message"])
	assert.Empty(t, body["errors"])

	meta, ok := body["meta"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"request_id", "timestamp", "response_time", "documentation_url"} {
		assert.Contains(t, meta, key)
	}
	assert.Equal(t, DocumentationURL, meta["documentation_url"])
	assert.Regexp(t, `^\d+\.\d+ seconds$`, meta["response_time"])
}

func TestResponseJSON_StandardHeaders(t *testing.T) {
	resp, _ := performRequest(t, func(c *fiber.Ctx) error {
		c.Locals(RequestID, "req-123")
		c.Locals(RequestStart, time.Now())
		return ResponseOK(c, nil)
	})

	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "200", resp.Header.Get("X-Status-Code"))
	assert.Equal(t, StatusSucceeded, resp.Header.Get("X-Status-Message"))
	assert.Contains(t, resp.Header.Get("X-Response-Time"), "seconds")
}

func TestResponseJSON_GeneratesRequestIDWhenMissing(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ResponseOK(c, nil)
	})

	meta := body["meta"].(map[string]interface{})
	assert.NotEmpty(t, meta["request_id"])
	assert.Equal(t, meta["request_id"], resp.Header.Get("X-Request-ID"))
}

func TestResponseJSON_IncludesRateLimitMeta(t *testing.T) {
	_, body := performRequest(t, func(c *fiber.Ctx) error {
		c.Locals(RateLimitStatus, []throttle.Status{
			{Type: "anon", Limit: 100, Remaining: 42, ResetTime: 1700000000},
		})
		return ResponseOK(c, nil)
	})

	meta := body["meta"].(map[string]interface{})
	rateLimit, ok := meta["rate_limit"].([]interface{})
	require.True(t, ok)
	require.Len(t, rateLimit, 1)

	entry := rateLimit[0].(map[string]interface{})
	assert.Equal(t, "anon", entry["type"])
	assert.NotContains(t, entry, "Blocked")
}

func TestResponseAppError_FailureEnvelope(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ResponseAppError(c, NewNotFound("Video not found"))
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, StatusFailed, body["status"])
	assert.Equal(t, "Video not found", body["message"])
	assert.Nil(t, body["data"])

	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)

	record := errs[0].(map[string]interface{})
	assert.Equal(t, "none", record["field"])
	assert.Equal(t, CodeNotFound, record["code"])
	assert.Equal(t, "Video not found", record["message"])
}

func TestResponseCreated(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ResponseCreated(c, map[string]string{"id": "v1"})
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Created", body["message"])
}
