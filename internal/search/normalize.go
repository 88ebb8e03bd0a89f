// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/curator/pkg/types"
)

// text is a lenient JSON string. Providers return ids as numbers or
// strings, and occasionally put objects where text is expected. Numbers and
// booleans are rendered as strings; null, objects, and arrays decode to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*t = text(strings.TrimSpace(x))
	case json.Number:
		*t = text(x.String())
	case bool:
		*t = text(strconv.FormatBool(x))
	default:
		*t = ""
	}
	return nil
}

func (t text) String() string { return string(t) }

// truthy is a lenient JSON boolean: true, "true", and non-zero numbers are
// true; everything else, including null, is false.
type truthy bool

func (f *truthy) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*f = truthy(x)
	case string:
		*f = truthy(strings.EqualFold(strings.TrimSpace(x), "true"))
	case float64:
		*f = x != 0
	default:
		*f = false
	}
	return nil
}

// jsonKind returns the first significant byte of a raw JSON value: '{',
// '[', '"', or the start of a scalar. Absent or blank input yields 0.
func jsonKind(b []byte) byte {
	t := bytes.TrimSpace(b)
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// decodeObject decodes b into v only when b is a JSON object. Any other
// shape, or an object that does not decode, leaves v as it was. Callers
// pass an alias type so their own UnmarshalJSON is not re-entered.
func decodeObject(b []byte, v any) {
	if jsonKind(b) != '{' {
		return
	}
	_ = json.Unmarshal(b, v)
}

// lenientList is a JSON array decoded element by element. A lone value is
// read as a one-element list, and elements that do not decode are dropped.
type lenientList[T any] []T

func (l *lenientList[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	if isNull(b) {
		return nil
	}
	var raw []json.RawMessage
	if jsonKind(b) != '[' || json.Unmarshal(b, &raw) != nil {
		raw = []json.RawMessage{b}
	}
	out := make(lenientList[T], 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err == nil {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}

// firstNonEmpty returns the first value that is not blank. It is the
// building block of every preferred → alternate → default chain.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// categorize maps free-text classification to the closed Category set by
// case-insensitive keyword match. Unmatched text yields "".
func categorize(classification string) types.Category {
	s := strings.ToLower(classification)
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "painting"):
		return types.CategoryPainting
	case strings.Contains(s, "photograph"):
		return types.CategoryPhotography
	case strings.Contains(s, "ceramic"),
		strings.Contains(s, "decorative"),
		strings.Contains(s, "glass"):
		return types.CategoryDecorative
	}
	return ""
}

// imageURL resolves an image from a provider-specific identifier, an
// alternate lower-resolution URL, and finally the shared placeholder.
// Alternates that are not fully qualified are ignored.
func imageURL(fromID func(string) string, imageID string, alternates ...string) string {
	if id := strings.TrimSpace(imageID); id != "" {
		return fromID(id)
	}
	for _, alt := range alternates {
		alt = strings.TrimSpace(alt)
		if isLoadable(alt) {
			return alt
		}
	}
	return types.PlaceholderImage
}

// isLoadable reports whether u can be used directly as an image source.
func isLoadable(u string) bool {
	return strings.HasPrefix(u, "https://") ||
		strings.HasPrefix(u, "http://") ||
		strings.HasPrefix(u, "data:image/")
}

// decodeRecords decodes each raw record independently so one malformed
// record cannot fail the whole response. Records that do not decode are
// reported through skip and dropped.
func decodeRecords[T any](raw []json.RawMessage, skip func(i int, err error)) []T {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var rec T
		if err := json.Unmarshal(r, &rec); err != nil {
			if skip != nil {
				skip(i, err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

// isNull reports whether a raw JSON value is absent or null.
func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
