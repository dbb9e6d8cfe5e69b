package httpclient

import (
	"context"
	"testing"

	"github.com/kbukum/restkit/provider"
)

func TestClient_Middleware(t *testing.T) {
	var order []string
	tag := func(name string) provider.Middleware[*Request, *Response] {
		return func(inner provider.RequestResponse[*Request, *Response]) provider.RequestResponse[*Request, *Response] {
			return provider.NewFunc(inner.Name(), func(ctx context.Context, req *Request) (*Response, error) {
				order = append(order, name)
				return inner.Execute(ctx, req)
			}, inner.IsAvailable)
		}
	}

	tr := newFakeTransport("application/json")
	c := newTestClient(t, tr, Config{Name: "mw"}, WithMiddleware(tag("outer"), tag("inner")))

	var rr provider.RequestResponse[*Request, *Response] = c
	if rr.Name() != "mw" {
		t.Errorf("unexpected provider name %q", rr.Name())
	}
	if _, err := rr.Execute(context.Background(), mustBuild(t, c.Request())); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("unexpected middleware order %v", order)
	}
	if tr.calls() != 1 {
		t.Errorf("expected one transport call, got %d", tr.calls())
	}
}
