package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
)

// Header is a single header field.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Headers is an ordered multi-map of header fields. Keys are compared
// case-insensitively and stored in canonical MIME form.
//
// The zero value is an empty header set ready to use. Mutations never write
// into storage shared with a copy, so a Headers value can be copied freely.
type Headers struct {
	entries []Header
}

// NewHeaders builds a header set from alternating key/value pairs. A trailing
// key without value is ignored.
func NewHeaders(kv ...string) Headers {
	var h Headers
	for i := 0; i+1 < len(kv); i += 2 {
		h.Add(kv[i], kv[i+1])
	}
	return h
}

// HeadersFromHTTP converts an http.Header. Keys are emitted in sorted order so
// the result is deterministic.
func HeadersFromHTTP(src http.Header) Headers {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var h Headers
	for _, k := range keys {
		for _, v := range src[k] {
			h.Add(k, v)
		}
	}
	return h
}

func canonicalKey(key string) string {
	return textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key))
}

// Add appends a field, keeping any existing values of key.
func (h *Headers) Add(key, value string) {
	h.entries = append(slices.Clip(h.entries), Header{Key: canonicalKey(key), Value: value})
}

// Set replaces the first occurrence of key in place and removes the others.
// The field is appended when key is absent.
func (h *Headers) Set(key, value string) {
	key = canonicalKey(key)
	found := false
	out := make([]Header, 0, len(h.entries)+1)
	for _, e := range h.entries {
		if e.Key != key {
			out = append(out, e)
			continue
		}
		if !found {
			out = append(out, Header{Key: key, Value: value})
			found = true
		}
	}
	if !found {
		out = append(out, Header{Key: key, Value: value})
	}
	h.entries = out
}

// Get returns the first value of key, or "".
func (h Headers) Get(key string) string {
	key = canonicalKey(key)
	for _, e := range h.entries {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// Values returns every value of key in insertion order.
func (h Headers) Values(key string) []string {
	key = canonicalKey(key)
	var out []string
	for _, e := range h.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Has reports whether key is present.
func (h Headers) Has(key string) bool {
	key = canonicalKey(key)
	for _, e := range h.entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Del removes every occurrence of key.
func (h *Headers) Del(key string) {
	key = canonicalKey(key)
	if !h.Has(key) {
		return
	}
	h.entries = slices.DeleteFunc(slices.Clone(h.entries), func(e Header) bool { return e.Key == key })
}

// Len returns the number of fields, counting repeated keys.
func (h Headers) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the fields in order.
func (h Headers) Entries() []Header {
	return slices.Clone(h.entries)
}

// Clone returns an independent copy.
func (h Headers) Clone() Headers {
	return Headers{entries: slices.Clone(h.entries)}
}

// HTTPHeader converts to an http.Header, preserving value order per key.
func (h Headers) HTTPHeader() http.Header {
	out := make(http.Header, len(h.entries))
	for _, e := range h.entries {
		out[e.Key] = append(out[e.Key], e.Value)
	}
	return out
}

// String renders the fields as "Key: Value" pairs.
func (h Headers) String() string {
	parts := make([]string, len(h.entries))
	for i, e := range h.entries {
		parts[i] = e.Key + ": " + e.Value
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MarshalJSON encodes the fields as an ordered list.
func (h Headers) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

// UnmarshalJSON decodes an ordered list of fields.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var entries []Header
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	h.entries = nil
	for _, e := range entries {
		h.Add(e.Key, e.Value)
	}
	return nil
}

// MergePolicy controls how transport default headers combine with the
// headers a request already carries.
type MergePolicy string

const (
	// MergeSkipExisting appends a default only when the request does not set
	// that key.
	MergeSkipExisting MergePolicy = "skip_existing"
	// MergeAppend appends every default after the request headers, so a key set
	// on both sides is sent twice.
	MergeAppend MergePolicy = "append"
)

// ParseMergePolicy parses a policy name. An empty name yields MergeSkipExisting.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeSkipExisting:
		return MergeSkipExisting, nil
	case MergeAppend:
		return MergeAppend, nil
	default:
		return "", fmt.Errorf("unknown header merge policy %q", s)
	}
}

// MergeHeaders returns request followed by the defaults admitted by policy.
// Request fields are never removed or reordered. Under MergeSkipExisting the
// check is made against the request's own keys, so a default key with several
// values contributes all of them.
func MergeHeaders(request, defaults Headers, policy MergePolicy) Headers {
	merged := request.Clone()
	for _, d := range defaults.entries {
		if policy != MergeAppend && request.Has(d.Key) {
			continue
		}
		merged.entries = append(merged.entries, d)
	}
	return merged
}
