package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// The package-level emission helpers keep handlers unaware of whether a
// caching writer is installed. Each one finds the tracked writer behind w,
// following the Unwrap convention through intermediate wrappers, and
// degrades to plain http semantics when there is none, so the same handler
// works mounted with or without the middleware.

// tracked walks the Unwrap chain looking for the caching writer.
func tracked(w http.ResponseWriter) *ResponseWriter {
	for {
		switch v := w.(type) {
		case *ResponseWriter:
			return v
		case interface{ Unwrap() http.ResponseWriter }:
			w = v.Unwrap()
		default:
			return nil
		}
	}
}

// Send writes a response body, cached when a tracked writer is installed.
func Send(w http.ResponseWriter, body []byte) (int, error) {
	if cw := tracked(w); cw != nil {
		return cw.Send(body)
	}
	return w.Write(body)
}

// SendString writes a string response body.
func SendString(w http.ResponseWriter, body string) (int, error) {
	return Send(w, []byte(body))
}

// JSON marshals v and writes it with a JSON content type.
func JSON(w http.ResponseWriter, v any) error {
	if cw := tracked(w); cw != nil {
		return cw.JSON(v)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	w.Header().Set("Content-Type", jsonContentType)
	_, err = w.Write(data)
	return err
}

// Status records the response status code. With a plain writer the status
// line is written immediately, so assign headers first.
func Status(w http.ResponseWriter, code int) {
	if cw := tracked(w); cw != nil {
		cw.Status(code)
		return
	}
	w.WriteHeader(code)
}

// SetHeader assigns one response header.
func SetHeader(w http.ResponseWriter, name, value string) {
	if cw := tracked(w); cw != nil {
		cw.Set(name, value)
		return
	}
	w.Header().Set(name, value)
}

// SetHeaders assigns a batch of response headers.
func SetHeaders(w http.ResponseWriter, headers map[string]string) {
	if cw := tracked(w); cw != nil {
		cw.SetHeaders(headers)
		return
	}
	for name, value := range headers {
		w.Header().Set(name, value)
	}
}

// Attachment declares the response as a file download.
func Attachment(w http.ResponseWriter, filename string) {
	if cw := tracked(w); cw != nil {
		cw.Attachment(filename)
		return
	}
	disposition, contentType := attachmentHeaders(filename)
	w.Header().Set("Content-Disposition", disposition)
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
}

// SetTTL overrides the cache lifetime for this response. It is a no-op
// when no tracked writer is installed.
func SetTTL(w http.ResponseWriter, ttl time.Duration) {
	if cw := tracked(w); cw != nil {
		cw.SetTTL(ttl)
	}
}
