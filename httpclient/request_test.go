package httpclient

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/kbukum/restkit/errors"
)

func TestRequestBuilder_Defaults(t *testing.T) {
	req, err := NewRequestBuilder().Host("api.example.com").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method() != "GET" || req.Scheme() != "https" {
		t.Errorf("unexpected defaults %s %s", req.Method(), req.Scheme())
	}
	if req.Expected().Essence() != "application/json" {
		t.Errorf("expected JSON by default, got %q", req.Expected().Essence())
	}
	if req.ID() == "" {
		t.Error("expected request ID")
	}

	other, _ := NewRequestBuilder().Host("api.example.com").Build()
	if other.ID() == req.ID() {
		t.Error("request IDs should be unique")
	}
}

func TestRequestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *RequestBuilder
		field   string
	}{
		{"missing host", NewRequestBuilder(), "host"},
		{"unknown method", NewRequestBuilder().Host("h").Method("fetch"), "method"},
		{"scheme in host", NewRequestBuilder().Host("https://h"), "host"},
		{"bad header name", NewRequestBuilder().Host("h").Header("Bad Header", "v"), "header"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != apperrors.ErrCodeInvalidInput {
				t.Errorf("unexpected code %s", appErr.Code)
			}
			if !strings.Contains(appErr.Message, tc.field) {
				t.Errorf("expected %q in message %q", tc.field, appErr.Message)
			}
		})
	}
}

func TestRequestBuilder_URL(t *testing.T) {
	req, err := NewRequestBuilder().
		Host("www.reddit.com").
		HTTPS(false).
		Path("r/%s/about.json", "go lang").
		Query("limit", "10").
		Query("raw_json", "1").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "http://www.reddit.com/r/go%20lang/about.json?limit=10&raw_json=1"
	if got := req.URL().String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRequestBuilder_Body(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		header      string
		wantBody    string
		wantContent string
	}{
		{"json", map[string]int{"a": 1}, "", `{"a":1}`, "application/json"},
		{"string", "hello", "", "hello", "text/plain; charset=utf-8"},
		{"bytes", []byte("raw"), "", "raw", ""},
		{"reader", strings.NewReader("stream"), "", "stream", ""},
		{"explicit content type wins", "a=1", "application/x-www-form-urlencoded", "a=1", "application/x-www-form-urlencoded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewRequestBuilder().Host("h").Post(tc.body)
			if tc.header != "" {
				b.SetHeader("Content-Type", tc.header)
			}
			req, err := b.Build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(req.Body()) != tc.wantBody {
				t.Errorf("body = %q, want %q", req.Body(), tc.wantBody)
			}
			if got := req.Headers().Get("Content-Type"); got != tc.wantContent {
				t.Errorf("content type = %q, want %q", got, tc.wantContent)
			}
			if n := len(req.Headers().Values("Content-Type")); tc.wantContent != "" && n != 1 {
				t.Errorf("expected one Content-Type, got %d", n)
			}
		})
	}
}

func TestRequestBuilder_UnencodableBody(t *testing.T) {
	_, err := NewRequestBuilder().Host("h").Post(make(chan int)).Build()
	if err == nil || !strings.Contains(err.Error(), "body") {
		t.Errorf("expected body error, got %v", err)
	}
}

func TestRequestBuilder_CloneIsIndependent(t *testing.T) {
	base := NewRequestBuilder().Host("h").Header("X-Base", "1").Query("q", "1")
	clone := base.Clone().Header("X-Clone", "1").Query("q", "2").Host("other")

	a, _ := base.Build()
	b, _ := clone.Build()

	if a.Headers().Has("X-Clone") || a.Host() != "h" {
		t.Errorf("base affected by clone: %s", a)
	}
	if got := a.Query()["q"]; len(got) != 1 {
		t.Errorf("base query affected by clone: %v", got)
	}
	if !b.Headers().Has("X-Base") || len(b.Query()["q"]) != 2 {
		t.Errorf("clone lost base state: %s", b)
	}
}

func TestRequest_AccessorsReturnCopies(t *testing.T) {
	req, _ := NewRequestBuilder().Host("h").Header("X-A", "1").Query("q", "1").Post([]byte("body")).Build()

	h := req.Headers()
	h.Set("X-A", "changed")
	q := req.Query()
	q.Set("q", "changed")
	body := req.Body()
	body[0] = 'B'

	if req.Headers().Get("X-A") != "1" || req.Query().Get("q") != "1" || string(req.Body()) != "body" {
		t.Errorf("request mutated through accessors: %s", req)
	}
}

func TestRequest_MarshalJSONOmitsPassword(t *testing.T) {
	req, _ := NewRequestBuilder().Host("h").BasicAuth("user", "s3cret").Build()

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "s3cret") {
		t.Errorf("password leaked: %s", data)
	}
	if !strings.Contains(req.String(), "user:****") {
		t.Errorf("expected masked credentials in %s", req)
	}

	var back Request
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID() != req.ID() || back.BasicAuth().Username != "user" || back.BasicAuth().Password != "" {
		t.Errorf("unexpected decoded request %s", &back)
	}
}
