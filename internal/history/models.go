package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/artpar/restui/internal/core"
)

// Entry represents a single sent request and its outcome.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Request snapshot
	RequestID    string          `json:"request_id,omitempty"`
	RequestName  string          `json:"request_name,omitempty"`
	CollectionID string          `json:"collection_id,omitempty"`
	Method       string          `json:"method"`
	URL          string          `json:"url"`
	Headers      []core.KeyValue `json:"headers,omitempty"`
	QueryParams  []core.KeyValue `json:"query_params,omitempty"`
	Body         string          `json:"body,omitempty"`
	Auth         core.AuthConfig `json:"auth"`

	// Outcome. StatusCode is 0 when the request never got a response.
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// NewEntry snapshots req at the current time.
func NewEntry(req *core.RequestDefinition) Entry {
	return Entry{
		Timestamp:   time.Now(),
		RequestID:   req.ID(),
		RequestName: req.Name(),
		Method:      string(req.Method()),
		URL:         req.URL(),
		Headers:     req.Headers(),
		QueryParams: req.QueryParams(),
		Body:        req.Body(),
		Auth:        req.Auth(),
	}
}

// Failed reports whether the request never got a response.
func (e Entry) Failed() bool {
	return e.StatusCode == 0
}

// Display formats the entry for the history list: "METHOD /path STATUS".
func (e Entry) Display() string {
	path := e.URL
	if _, rest, ok := strings.Cut(e.URL, "://"); ok {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			path = rest[i:]
		}
	}
	status := "ERR"
	if !e.Failed() {
		status = strconv.Itoa(e.StatusCode)
	}
	return e.Method + " " + path + " " + status
}

// Request rebuilds an editable request from the snapshot.
func (e Entry) Request() *core.RequestDefinition {
	name := e.RequestName
	if name == "" {
		name = e.URL
	}
	req := core.NewRequestDefinition(name, core.ParseMethod(e.Method), e.URL)
	req.SetHeaders(e.Headers)
	req.SetQueryParams(e.QueryParams)
	req.SetBody(e.Body)
	req.SetAuth(e.Auth)
	return req
}
