package safefetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
	contentTypeForm   = "application/x-www-form-urlencoded"
)

// normalizeBody resolves a RequestOptions body into wire bytes exactly once,
// before the retry loop starts, so every attempt can replay it. It returns
// the bytes and the Content-Type to default when the headers carry none.
//
// Recognized byte-like kinds (nil, []byte, string, io.Reader,
// json.RawMessage) pass through untouched; url.Values is form-encoded;
// any other value is JSON-marshalled, but only when the effective
// Content-Type is absent or JSON. A struct body under an explicit non-JSON
// Content-Type has no meaningful wire form and is rejected.
func normalizeBody(body any, contentType string) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "", nil
	case json.RawMessage:
		return b, contentTypeJSON, nil
	case url.Values:
		return []byte(b.Encode()), contentTypeForm, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("reading body stream: %w", err)
		}
		return data, "", nil
	default:
		if contentType != "" && !isJSONContentType(contentType) {
			return nil, "", &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("body of type %T cannot be serialized as %s", body, contentType),
			}
		}
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", &ClientError{
				Type:    ErrorTypeValidation,
				Message: "body is not JSON-serializable",
				Cause:   err,
			}
		}
		return data, contentTypeJSON, nil
	}
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == contentTypeJSON || strings.HasSuffix(ct, "+json")
}
