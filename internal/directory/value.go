package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// valueKind tags the shape of a single raw record field.
type valueKind int

const (
	kindAbsent valueKind = iota
	kindNull
	kindString
	kindNumber
	kindBool
	kindObject
	kindArray
)

// renderLimit caps the JSON text produced for unrecognised nested objects.
const renderLimit = 70

var digitRun = regexp.MustCompile(`\d+`)

// value is a classified raw field. raw holds map[string]any for objects and
// []any for arrays; text holds the text form of strings and numbers.
type value struct {
	kind valueKind
	raw  any
	text string
	num  float64
	b    bool
}

var absent = value{kind: kindAbsent}

// classify tags a decoded JSON or YAML value.
func classify(v any) value {
	switch t := v.(type) {
	case nil:
		return value{kind: kindNull}
	case value:
		return t
	case string:
		return value{kind: kindString, raw: t, text: t}
	case bool:
		return value{kind: kindBool, raw: t, b: t}
	case json.Number:
		return numberValue(t.String())
	case float64:
		return numberFromFloat(t)
	case float32:
		return numberFromFloat(float64(t))
	case int:
		return numberFromInt(int64(t))
	case int64:
		return numberFromInt(t)
	case int32:
		return numberFromInt(int64(t))
	case uint64:
		return numberFromFloat(float64(t))
	case uint:
		return numberFromFloat(float64(t))
	case map[string]any:
		return value{kind: kindObject, raw: t}
	case entities.RawDoctor:
		return value{kind: kindObject, raw: map[string]any(t)}
	case map[any]any:
		obj := make(map[string]any, len(t))
		for k, item := range t {
			obj[fmt.Sprint(k)] = item
		}
		return value{kind: kindObject, raw: obj}
	case []any:
		return value{kind: kindArray, raw: t}
	case []string:
		arr := make([]any, len(t))
		for i, s := range t {
			arr[i] = s
		}
		return value{kind: kindArray, raw: arr}
	case []map[string]any:
		arr := make([]any, len(t))
		for i, m := range t {
			arr[i] = m
		}
		return value{kind: kindArray, raw: arr}
	default:
		s := fmt.Sprint(t)
		return value{kind: kindString, raw: s, text: s}
	}
}

func numberValue(s string) value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return numberFromInt(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value{kind: kindString, raw: s, text: s}
	}
	return numberFromFloat(f)
}

func numberFromInt(n int64) value {
	return value{kind: kindNumber, raw: n, text: strconv.FormatInt(n, 10), num: float64(n)}
}

func numberFromFloat(f float64) value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value{kind: kindNull}
	}
	return value{kind: kindNumber, raw: f, text: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// parseEmbedded applies the JSON-string rule: strings that look like a JSON
// object or array are decoded, and anything that fails to decode is kept as is.
func parseEmbedded(v value) value {
	if v.kind != kindString {
		return v
	}
	if !strings.HasPrefix(v.text, "{") && !strings.HasPrefix(v.text, "[") {
		return v
	}
	dec := json.NewDecoder(strings.NewReader(v.text))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return v
	}
	if dec.More() {
		return v
	}
	return classify(decoded)
}

// present mirrors "has a usable value": not absent, not null, not an empty string.
func (v value) present() bool {
	switch v.kind {
	case kindAbsent, kindNull:
		return false
	case kindString:
		return v.text != ""
	}
	return true
}

func (v value) object() map[string]any {
	if m, ok := v.raw.(map[string]any); ok {
		return m
	}
	return nil
}

func (v value) array() []any {
	if a, ok := v.raw.([]any); ok {
		return a
	}
	return nil
}

// field reads a nested field of an object value; non-objects yield absent.
func (v value) field(key string) value {
	obj := v.object()
	if obj == nil {
		return absent
	}
	item, ok := obj[key]
	if !ok {
		return absent
	}
	return parseEmbedded(classify(item))
}

// scalarText returns the text of strings and numbers, and "" for anything else.
func (v value) scalarText() string {
	switch v.kind {
	case kindString, kindNumber:
		return v.text
	}
	return ""
}

// record is a raw doctor record with typed field access.
type record map[string]any

func (r record) get(key string) value {
	item, ok := r[key]
	if !ok {
		return absent
	}
	return parseEmbedded(classify(item))
}

func (r record) first(keys ...string) value {
	for _, key := range keys {
		if v := r.get(key); v.present() {
			return v
		}
	}
	return absent
}

func firstPresent(values ...value) value {
	for _, v := range values {
		if v.present() {
			return v
		}
	}
	return absent
}

// renderText flattens a possibly nested field into display text.
func renderText(v value) string {
	switch v.kind {
	case kindAbsent, kindNull:
		return ""
	case kindString, kindNumber:
		return v.text
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindObject:
		locality, city := v.field("locality"), v.field("city")
		if locality.present() && city.present() {
			return renderText(locality) + ", " + renderText(city)
		}
		if line := v.field("address_line1"); line.present() {
			return renderText(line)
		}
	}
	return truncate(jsonText(v.raw), renderLimit)
}

func jsonText(raw any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(raw); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// firstInt extracts the first run of ASCII digits in s.
func firstInt(s string) (int, bool) {
	match := digitRun.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingInt parses an optionally signed integer prefix, ignoring what follows.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
