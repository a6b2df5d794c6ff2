package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/textproto"
	"path"
	"time"

	"github.com/mattkrea/express-cache/pkg/cache"
	"github.com/rs/zerolog"
)

// jsonContentType is stamped on JSON emissions and stored with the entry,
// so replays carry it too.
const jsonContentType = "application/json; charset=utf-8"

// ResponseWriter wraps the real response writer for the downstream handler.
// The tracked operations (Status, Set, SetHeaders, Attachment, SetTTL,
// Send, SendString, JSON) accumulate working state, and the first tracked
// emission persists the response before forwarding it. Raw Write calls and
// direct Header() mutation still reach the client but stay out of the
// stored entry: streaming handlers are never cached.
//
// A ResponseWriter belongs to a single request and must not be shared
// across goroutines.
type ResponseWriter struct {
	http.ResponseWriter

	ctx    context.Context
	store  cache.Store // nil on bypassed requests
	key    string
	ttl    time.Duration
	logger zerolog.Logger

	status      int               // recorded code, 0 until assigned
	headers     map[string]string // tracked header assignments
	attachment  string            // declared download filename
	wroteHeader bool              // status line already forwarded
	stored      bool              // entry already persisted
}

func newResponseWriter(w http.ResponseWriter, r *http.Request, store cache.Store, key string, ttl time.Duration, logger zerolog.Logger) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		ctx:            r.Context(),
		store:          store,
		key:            key,
		ttl:            ttl,
		logger:         logger,
		headers:        make(map[string]string),
	}
}

// Status records the status code for the response and the stored entry.
// The status line itself goes out with the first emission; an unassigned
// status defaults to 200. Calls after the status line was sent are ignored.
func (w *ResponseWriter) Status(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
}

// WriteHeader records the status code and forwards it immediately.
// Duplicate calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

// Set assigns one response header through the tracked path: the value
// reaches both the client and the stored entry. Later assignments to the
// same name win.
func (w *ResponseWriter) Set(name, value string) {
	w.headers[textproto.CanonicalMIMEHeaderKey(name)] = value
	w.Header().Set(name, value)
}

// SetHeaders assigns a batch of response headers through the tracked path.
func (w *ResponseWriter) SetHeaders(headers map[string]string) {
	for name, value := range headers {
		w.Set(name, value)
	}
}

// Attachment declares the response as a file download. The disposition and
// the extension-derived content type go through the tracked path, and the
// filename itself is stored so replays re-apply the declaration.
func (w *ResponseWriter) Attachment(filename string) {
	w.attachment = filename
	disposition, contentType := attachmentHeaders(filename)
	w.Set("Content-Disposition", disposition)
	if contentType != "" {
		w.Set("Content-Type", contentType)
	}
}

// SetTTL overrides the configured entry lifetime for this response alone.
// It must be called before the body is emitted. Non-positive values are
// ignored and the configured TTL stands.
func (w *ResponseWriter) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	w.ttl = ttl
}

// Send emits a tracked response body.
func (w *ResponseWriter) Send(body []byte) (int, error) {
	w.persist(body)
	w.writeHeaderNow()
	return w.ResponseWriter.Write(body)
}

// SendString emits a tracked response body from a string.
func (w *ResponseWriter) SendString(body string) (int, error) {
	return w.Send([]byte(body))
}

// JSON marshals v and emits it as a tracked response body with a JSON
// content type. A marshal error is returned with nothing written or stored.
func (w *ResponseWriter) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	w.Set("Content-Type", jsonContentType)
	_, err = w.Send(data)
	return err
}

// Write forwards bytes without recording them. Handlers writing through the
// raw interface opt out of caching for that response.
func (w *ResponseWriter) Write(p []byte) (int, error) {
	w.writeHeaderNow()
	return w.ResponseWriter.Write(p)
}

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// writeHeaderNow flushes the pending status line if it has not gone out.
func (w *ResponseWriter) writeHeaderNow() {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	code := w.status
	if code == 0 {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

// persist stores the entry for this response: the field write first, then
// the expiry as a second step. Only the first tracked emission stores;
// failures are logged and never interrupt the response.
func (w *ResponseWriter) persist(body []byte) {
	if w.stored || w.store == nil {
		return
	}
	w.stored = true

	entry := &cache.Entry{
		Status:     w.status,
		Body:       body,
		Headers:    w.headers,
		Attachment: w.attachment,
	}

	fields, err := entry.Fields()
	if err != nil {
		w.logger.Warn().Err(err).Str("key", w.key).Msg("Cache entry serialization failed")
		return
	}

	if err := w.store.WriteFields(w.ctx, w.key, fields); err != nil {
		w.logger.Warn().Err(err).Str("key", w.key).Msg("Cache write failed")
		return
	}

	if err := w.store.SetExpiry(w.ctx, w.key, w.ttl); err != nil {
		w.logger.Warn().Err(err).Str("key", w.key).Msg("Cache expiry failed")
		return
	}

	cache.Writes.Inc()
}

// attachmentHeaders derives the download headers for a filename. The
// content type is empty when the extension is unknown.
func attachmentHeaders(filename string) (disposition, contentType string) {
	disposition = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	contentType = mime.TypeByExtension(path.Ext(filename))
	return disposition, contentType
}
