package httpclient

import (
	"github.com/kbukum/restkit/provider"
)

// compile-time assertions
var _ provider.RequestResponse[*Request, *Response] = (*Client)(nil)
var _ Transport = (*HTTPTransport)(nil)
