package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"penlight/internal/service"
)

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// buildUpdateInput turns a raw JSON object into a partial update,
// keeping the distinction between a field that is absent and one set to
// null. Scalar fields ignore explicit nulls; thumbnail, topic and
// relatedArticles treat null as "clear".
func buildUpdateInput(raw map[string]json.RawMessage) (service.UpdatePostInput, error) {
	var in service.UpdatePostInput

	decodeString := func(key string, dest **string) error {
		val, ok := raw[key]
		if !ok || isJSONNull(val) {
			return nil
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return fmt.Errorf("%s must be a string", key)
		}
		*dest = &s
		return nil
	}

	if err := decodeString("title", &in.Title); err != nil {
		return in, err
	}
	if err := decodeString("excerpt", &in.Excerpt); err != nil {
		return in, err
	}
	if err := decodeString("content", &in.Content); err != nil {
		return in, err
	}
	if err := decodeString("fontSize", &in.FontSize); err != nil {
		return in, err
	}

	if val, ok := raw["pinned"]; ok && !isJSONNull(val) {
		var b bool
		if err := json.Unmarshal(val, &b); err != nil {
			return in, fmt.Errorf("pinned must be a boolean")
		}
		in.Pinned = &b
	}

	if val, ok := raw["thumbnail"]; ok {
		in.ThumbnailSet = true
		if !isJSONNull(val) {
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return in, fmt.Errorf("thumbnail must be a string")
			}
			in.Thumbnail = &s
		}
	}

	if val, ok := raw["topic"]; ok {
		in.TopicSet = true
		if !isJSONNull(val) {
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return in, fmt.Errorf("topic must be a string or number")
			}
			in.Topic = v
		}
	}

	if val, ok := raw["relatedArticles"]; ok {
		in.RelatedSet = true
		if isJSONNull(val) {
			in.RelatedNull = true
		} else {
			var ids []string
			if err := json.Unmarshal(val, &ids); err != nil {
				return in, fmt.Errorf("relatedArticles must be an array of strings")
			}
			in.RelatedArticles = ids
		}
	}

	return in, nil
}
