package intent

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Keys of the JSON object the model is asked to return.
const (
	KeyTopic      = "Topic"
	KeySubtopic   = "Subtopic"
	KeyConfidence = "Confidence"
	KeyReason     = "Reason"
)

var (
	ErrNoJSON       = errors.New("no JSON object in model output")
	ErrInvalidJSON  = errors.New("invalid JSON in model output")
	ErrMissingTopic = errors.New("parsed output is missing Topic")
)

// ParseStatus distinguishes the ways a model answer can fail to parse.
type ParseStatus string

const (
	StatusOK           ParseStatus = "ok"
	StatusNoJSON       ParseStatus = "no_json"
	StatusInvalidJSON  ParseStatus = "invalid_json"
	StatusMissingTopic ParseStatus = "missing_topic"
)

// Payload is the classification object returned by the model. Absent or
// null keys stay nil.
type Payload struct {
	Topic      *string  `json:"Topic,omitempty"`
	Subtopic   *string  `json:"Subtopic,omitempty"`
	Confidence *float64 `json:"Confidence,omitempty"`
	Reason     *string  `json:"Reason,omitempty"`
}

// ParseResult is the outcome of ParseResponse. Payload is only meaningful
// for StatusOK and StatusMissingTopic.
type ParseResult struct {
	Status  ParseStatus
	Payload Payload
	Object  string // the JSON text that was decoded
	Err     error
}

// OK reports whether a usable classification was found.
func (r ParseResult) OK() bool {
	return r.Status == StatusOK
}

// Fields returns the decoded keys as a flat mapping: at most the four
// expected keys, and empty when no JSON object could be decoded.
func (r ParseResult) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 4)
	if r.Status != StatusOK && r.Status != StatusMissingTopic {
		return fields
	}
	if r.Payload.Topic != nil {
		fields[KeyTopic] = *r.Payload.Topic
	}
	if r.Payload.Subtopic != nil {
		fields[KeySubtopic] = *r.Payload.Subtopic
	}
	if r.Payload.Confidence != nil {
		fields[KeyConfidence] = *r.Payload.Confidence
	}
	if r.Payload.Reason != nil {
		fields[KeyReason] = *r.Payload.Reason
	}
	return fields
}

var fenceOpen = regexp.MustCompile("(?i)```[ \\t]*json")

// ParseResponse extracts the classification object from free-form model
// output. A ```json fence wins when present; otherwise the whole text is
// tried, then the outermost {...} span. It never panics and never returns
// an error value: failures are reported through Status.
func ParseResponse(raw string) ParseResult {
	text := strings.TrimSpace(raw)

	if loc := fenceOpen.FindStringIndex(text); loc != nil {
		body := text[loc[1]:]
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		obj, ok := firstObject(body)
		if !ok {
			return failed(StatusInvalidJSON, ErrInvalidJSON, strings.TrimSpace(body))
		}
		return decode(obj)
	}

	if gjson.Valid(text) {
		if !gjson.Parse(text).IsObject() {
			return failed(StatusNoJSON, ErrNoJSON, text)
		}
		return decode(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return failed(StatusNoJSON, ErrNoJSON, "")
	}
	return decode(text[start : end+1])
}

func failed(status ParseStatus, err error, object string) ParseResult {
	return ParseResult{Status: status, Err: err, Object: object}
}

func decode(obj string) ParseResult {
	if !gjson.Valid(obj) {
		return failed(StatusInvalidJSON, ErrInvalidJSON, obj)
	}
	root := gjson.Parse(obj)
	if !root.IsObject() {
		return failed(StatusNoJSON, ErrNoJSON, obj)
	}

	var p Payload
	p.Topic = stringField(lookup(root, KeyTopic))
	p.Subtopic = stringField(lookup(root, KeySubtopic))
	p.Confidence = floatField(lookup(root, KeyConfidence))
	p.Reason = stringField(lookup(root, KeyReason))

	res := ParseResult{Status: StatusOK, Payload: p, Object: obj}
	if p.Topic == nil || strings.TrimSpace(*p.Topic) == "" {
		res.Status = StatusMissingTopic
		res.Err = ErrMissingTopic
	}
	return res
}

// lookup finds key in obj, preferring an exact match over a case-insensitive one.
func lookup(obj gjson.Result, key string) gjson.Result {
	if v := obj.Get(key); v.Exists() {
		return v
	}
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if strings.EqualFold(k.String(), key) {
			found = v
			return false
		}
		return true
	})
	return found
}

func stringField(v gjson.Result) *string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		s := v.String()
		return &s
	default:
		return nil
	}
}

func floatField(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// firstObject returns the first balanced {...} in s, skipping braces inside
// JSON strings.
func firstObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
