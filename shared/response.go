package shared

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cliphive/clip_api/throttle"
)

// Response is the envelope every endpoint returns, success or failure.
type Response struct {
	Status     string        `json:"status"`
	StatusCode int           `json:"status_code"`
	Message    string        `json:"message"`
	Data       interface{}   `json:"data"`
	Errors     []ErrorRecord `json:"errors"`
	Meta       Meta          `json:"meta"`
}

// Meta is per-request metadata attached to every envelope.
type Meta struct {
	RequestID        string            `json:"request_id"`
	Timestamp        string            `json:"timestamp"`
	ResponseTime     string            `json:"response_time"`
	DocumentationURL string            `json:"documentation_url"`
	RateLimit        []throttle.Status `json:"rate_limit,omitempty"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

// JSONEncoder and JSONDecoder plug sonic into the fiber app config.
func JSONEncoder(v interface{}) ([]byte, error)   { return jsonAPI.Marshal(v) }
func JSONDecoder(data []byte, v interface{}) error { return jsonAPI.Unmarshal(data, v) }

// ResponseJSON renders a success envelope. Handlers call this for every 2xx.
func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	return render(c, Response{
		Status:     StatusSucceeded,
		StatusCode: httpCode,
		Message:    message,
		Data:       data,
		Errors:     []ErrorRecord{},
	})
}

// ResponseAppError renders a failure envelope from a translated error.
func ResponseAppError(c *fiber.Ctx, appErr *AppError) error {
	return render(c, Response{
		Status:     StatusFailed,
		StatusCode: appErr.StatusCode,
		Message:    appErr.Message,
		Errors:     appErr.Records,
	})
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, "Success", data)
}

func ResponseCreated(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusCreated, "Created", data)
}

// render finalizes the envelope: fills meta from the request locals, sets the
// standard header set, and serializes the body with sonic.
func render(c *fiber.Ctx, resp Response) error {
	requestID := localString(c, RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	elapsed := time.Duration(0)
	if start, ok := c.Locals(RequestStart).(time.Time); ok {
		elapsed = time.Since(start)
	}
	responseTime := fmt.Sprintf("%f seconds", elapsed.Seconds())

	resp.Meta = Meta{
		RequestID:        requestID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		ResponseTime:     responseTime,
		DocumentationURL: DocumentationURL,
	}
	if statuses, ok := c.Locals(RateLimitStatus).([]throttle.Status); ok {
		resp.Meta.RateLimit = statuses
	}

	c.Set("X-Request-ID", requestID)
	c.Set("X-Status-Code", strconv.Itoa(resp.StatusCode))
	c.Set("X-Status-Message", resp.Status)
	c.Set("X-Response-Time", responseTime)

	body, err := jsonAPI.Marshal(resp)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(resp.StatusCode).Send(body)
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
