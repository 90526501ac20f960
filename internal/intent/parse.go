package intent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONObject means the model text has no {...} span.
	ErrNoJSONObject = errors.New("intent: no JSON object in model response")
	// ErrMalformedRecord means the JSON decoded but intent or entities had the wrong shape.
	ErrMalformedRecord = errors.New("intent: malformed intent record")
)

// Parse pulls an intent record out of free-form model text. It slices from
// the first '{' to the last '}', swaps single quotes for double quotes when
// the slice has no double quotes at all, and decodes the result.
func Parse(content string) Result {
	block, err := jsonBlock(strings.TrimSpace(content))
	if err != nil {
		return Failed{Err: err}
	}

	dec := json.NewDecoder(strings.NewReader(block))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Failed{Err: fmt.Errorf("intent: decode model JSON: %w", err)}
	}
	if rest := strings.TrimSpace(block[dec.InputOffset():]); rest != "" {
		return Failed{Err: fmt.Errorf("intent: decode model JSON: extra data after object: %q", rest)}
	}

	parsed := Parsed{Entities: map[string]string{}}
	if v, ok := raw["intent"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			return Failed{Err: fmt.Errorf("%w: intent is %T, not a string", ErrMalformedRecord, v)}
		}
		parsed.Intent = s
	}
	if v, ok := raw["entities"]; ok && v != nil {
		obj, isObject := v.(map[string]any)
		if !isObject {
			return Failed{Err: fmt.Errorf("%w: entities is %T, not an object", ErrMalformedRecord, v)}
		}
		for key, value := range obj {
			parsed.Entities[key] = stringify(value)
		}
	}
	return parsed
}

func jsonBlock(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return "", ErrNoJSONObject
	}
	block := content[start : end+1]
	if strings.Contains(block, "'") && !strings.Contains(block, `"`) {
		block = strings.ReplaceAll(block, "'", `"`)
	}
	return block, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(buf.String())
	}
}
