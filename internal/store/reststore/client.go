// Package reststore consumes a hosted relational data service that exposes
// tables through a PostgREST style HTTP API (the query-builder surface used by
// hosted Postgres services such as Supabase).
package reststore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/store"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary
	// keeps snowflake ids exact when round-tripping through maps
	numberJSON = jsoniter.Config{EscapeHTML: true, SortMapKeys: true, ValidateJsonRawMessage: true, UseNumber: true}.Froze()
)

// Client talks to the data service REST endpoint.
type Client struct {
	baseURL string
	apiKey  string
	debug   bool
	http    *http.Client
}

func NewClient(cfg config.RestConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		debug:   cfg.Debug,
		http:    &http.Client{},
	}
}

type response struct {
	code  int
	body  string
	total int64
}

type respHeader struct {
	ContentRange string `header:"content-range"`
}

// apiError is the error body returned by the service
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) do(ctx context.Context, op, method, table string, query url.Values, payload interface{}, prefer string) (*response, error) {
	u := c.baseURL + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	headers := gout.H{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers["apikey"] = c.apiKey
		headers["Authorization"] = "Bearer " + c.apiKey
	}
	if prefer != "" {
		headers["Prefer"] = prefer
	}

	var (
		code int
		body string
		hdr  respHeader
	)
	flow := gout.New(c.http).
		SetMethod(method).
		SetURL(u).
		WithContext(ctx).
		SetHeader(headers).
		Code(&code).
		BindBody(&body).
		BindHeader(&hdr)
	if payload != nil {
		flow = flow.SetJSON(payload)
	}
	if c.debug {
		flow = flow.Debug(true)
	}
	if err := flow.Do(); err != nil {
		return nil, store.Wrap(store.ErrUnavailable, op, errors.Wrapf(err, "%s %s", method, table))
	}

	resp := &response{code: code, body: body, total: parseTotal(hdr.ContentRange)}
	if code >= 200 && code < 300 {
		return resp, nil
	}
	return nil, classifyStatus(op, resp)
}

// parseTotal reads the total out of a "0-9/42" content range; -1 when absent.
func parseTotal(contentRange string) int64 {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return -1
	}
	n, err := strconv.ParseInt(contentRange[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return n
}

func classifyStatus(op string, resp *response) error {
	var ae apiError
	_ = json.Unmarshal([]byte(resp.body), &ae)
	cause := fmt.Errorf("status %d: %s %s", resp.code, ae.Code, ae.Message)
	switch {
	case resp.code == http.StatusUnauthorized || resp.code == http.StatusForbidden || ae.Code == "42501":
		return store.Wrap(store.ErrPermission, op, cause)
	case resp.code == http.StatusNotFound:
		return store.Wrap(store.ErrNotFound, op, cause)
	case resp.code == http.StatusConflict || strings.HasPrefix(ae.Code, "23"):
		return store.Wrap(store.ErrConstraint, op, cause)
	case resp.code >= 500 || resp.code == http.StatusRequestTimeout || resp.code == http.StatusTooManyRequests:
		return store.Wrap(store.ErrUnavailable, op, cause)
	}
	return store.Wrap(store.ErrConstraint, op, cause)
}

func (c *Client) decode(op string, resp *response, v interface{}) error {
	if strings.TrimSpace(resp.body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(resp.body), v); err != nil {
		return store.Wrap(store.ErrUnavailable, op, errors.Wrap(err, "decode response"))
	}
	return nil
}

// likeTerm strips characters that would break an or=(...) tree.
func likeTerm(q string) string {
	q = strings.TrimSpace(q)
	return strings.NewReplacer(",", " ", "(", " ", ")", " ", `"`, " ").Replace(q)
}

// patchBody encodes v as a column map without the named columns.
func patchBody(v interface{}, omit ...string) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := numberJSON.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for _, k := range omit {
		delete(m, k)
	}
	return m, nil
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
