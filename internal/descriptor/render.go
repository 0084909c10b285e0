// Package descriptor renders the infrastructure descriptor written into each
// VM directory.
//
// Templates carry placeholders of the form {{UPPER_SNAKE_KEY}}. Rendering is
// a pure function of the template text and an explicit key/value mapping:
// each placeholder is replaced exactly once, replacement values are never
// scanned for further placeholders, and a placeholder without a value is an
// error rather than being left in the output.
package descriptor

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// tokenPattern matches a whole placeholder. Keys must start with a letter so
// that stray "{{}}" or "{{_X}}" sequences are not treated as placeholders.
var tokenPattern = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Params maps placeholder keys (without braces) to their values. Values are
// converted with Value.
type Params map[string]any

// UnresolvedTokensError is returned when a template references keys that
// have no value in the supplied Params.
type UnresolvedTokensError struct {
	Keys []string
}

func (e *UnresolvedTokensError) Error() string {
	tokens := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		tokens[i] = "{{" + k + "}}"
	}
	return fmt.Sprintf("descriptor template has unresolved placeholders: %s", strings.Join(tokens, ", "))
}

// Render substitutes every placeholder in tmpl with its value from params.
// Keys in params that the template does not reference are ignored.
func Render(tmpl string, params Params) (string, error) {
	missing := make(map[string]struct{})

	out := tokenPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-2]
		value, ok := params[key]
		if !ok {
			missing[key] = struct{}{}
			return token
		}
		return Value(value)
	})

	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", &UnresolvedTokensError{Keys: keys}
	}

	return out, nil
}

// keys returns the distinct placeholder keys referenced by tmpl, sorted.
func keys(tmpl string) []string {
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value converts a parameter value to its textual form. Strings, including
// named string types, are returned verbatim; booleans and numbers use their
// lowercase literal form.
func Value(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	case nil:
		return ""
	}

	// Named string types are still strings.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return strings.ToLower(fmt.Sprint(v))
}
