package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/tidwall/gjson"
)

// absentHeader is folded into the digest for a configured header the
// request does not carry. A present-but-empty header folds its empty value
// instead, so the two cases hash differently.
const absentHeader = "undefined"

// Fingerprint derives the cache key for a request. The digest covers the
// configured request headers, optionally a canonical form of a JSON object
// body, and the URL including the query string, in that order. The result
// is stable across processes and restarts and is used directly as the
// storage key.
//
// When includeBody is set the request body is consumed and restored, so
// downstream handlers can still read it.
func Fingerprint(r *http.Request, headerNames []string, includeBody bool) string {
	h := sha256.New()

	for _, name := range headerNames {
		io.WriteString(h, headerValue(r, name))
	}

	if includeBody {
		if body := canonicalBody(r); body != nil {
			h.Write(body)
		}
	}

	io.WriteString(h, r.URL.RequestURI())

	return hex.EncodeToString(h.Sum(nil))
}

// headerValue reads one header for fingerprinting. Multi-valued headers
// join with ", "; an absent header contributes absentHeader.
func headerValue(r *http.Request, name string) string {
	values, ok := r.Header[textproto.CanonicalMIMEHeaderKey(name)]
	if !ok || len(values) == 0 {
		return absentHeader
	}
	return strings.Join(values, ", ")
}

// canonicalBody returns a key-order-independent serialization of a JSON
// object body, or nil when the body is empty, unreadable, or not an
// object. The body is restored onto the request either way.
func canonicalBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil
	}

	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}

	canonical, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	return canonical
}
