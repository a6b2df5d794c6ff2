package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Stored field names. They match the layout written by earlier deployments
// of this cache, so existing keys replay without migration.
const (
	FieldStatus     = "status"
	FieldBody       = "body"
	FieldHeaders    = "headers"
	FieldAttachment = "attachment"
)

// ErrIncompleteEntry indicates a stored field map is missing the status or
// body field and cannot be replayed.
var ErrIncompleteEntry = errors.New("incomplete cache entry")

// Entry is the typed form of a cached response.
type Entry struct {
	// Status is the HTTP status code to replay. Zero means the handler
	// never set one and serializes as 200.
	Status int

	// Body is the response payload.
	Body []byte

	// Headers are the response headers captured at write time.
	Headers map[string]string

	// Attachment is the declared download filename, empty when none.
	Attachment string
}

// Fields serializes the entry into its stored field map. The headers field
// is omitted when no headers were captured, the attachment field when no
// download was declared.
func (e *Entry) Fields() (map[string]string, error) {
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}

	fields := map[string]string{
		FieldStatus: strconv.Itoa(status),
		FieldBody:   string(e.Body),
	}

	if len(e.Headers) > 0 {
		data, err := json.Marshal(e.Headers)
		if err != nil {
			return nil, fmt.Errorf("marshal headers: %w", err)
		}
		fields[FieldHeaders] = string(data)
	}

	if e.Attachment != "" {
		fields[FieldAttachment] = e.Attachment
	}

	return fields, nil
}

// EntryFromFields deserializes a stored field map.
//
// Returns ErrIncompleteEntry when the status or body field is missing;
// callers treat that as a miss. A malformed headers value is tolerated: the
// headers are dropped and the rest of the entry replays. A status value
// that does not parse as a valid HTTP code replays as 200.
func EntryFromFields(fields map[string]string) (*Entry, error) {
	rawStatus, ok := fields[FieldStatus]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s field", ErrIncompleteEntry, FieldStatus)
	}
	body, ok := fields[FieldBody]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s field", ErrIncompleteEntry, FieldBody)
	}

	status, err := strconv.Atoi(rawStatus)
	if err != nil || status < 100 || status > 999 {
		status = http.StatusOK
	}

	entry := &Entry{
		Status:     status,
		Body:       []byte(body),
		Attachment: fields[FieldAttachment],
	}

	if raw, ok := fields[FieldHeaders]; ok {
		var headers map[string]string
		if err := json.Unmarshal([]byte(raw), &headers); err == nil {
			entry.Headers = headers
		}
	}

	return entry, nil
}
