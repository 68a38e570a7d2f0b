package logbook

import (
	"fmt"
	"strconv"
	"strings"
)

// formatMessage renders a brace-style template against positional and
// named arguments: "{}" consumes the next positional argument, "{2}"
// references one by index, "{name}" looks up a named argument, and
// "{{" / "}}" escape literal braces. A trailing ":spec" inside a field
// is accepted but not interpreted; values render in their default form.
func formatMessage(template string, args []any, kwargs map[string]any) (string, error) {
	var sb strings.Builder
	auto := 0

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("single '{' encountered in format string")
			}
			field := template[i+1 : i+end]
			if colon := strings.IndexByte(field, ':'); colon >= 0 {
				field = field[:colon]
			}
			value, err := lookupField(field, args, kwargs, &auto)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprint(value))
			i += end
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' encountered in format string")
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}

// lookupField resolves a single replacement field against the arguments.
func lookupField(field string, args []any, kwargs map[string]any, auto *int) (any, error) {
	if field == "" {
		if *auto >= len(args) {
			return nil, fmt.Errorf("not enough positional arguments: need at least %d, got %d", *auto+1, len(args))
		}
		v := args[*auto]
		*auto++
		return v, nil
	}

	if idx, err := strconv.Atoi(field); err == nil {
		if idx < 0 || idx >= len(args) {
			return nil, fmt.Errorf("positional argument index %d out of range (%d arguments)", idx, len(args))
		}
		return args[idx], nil
	}

	v, ok := kwargs[field]
	if !ok {
		return nil, fmt.Errorf("missing named argument %q", field)
	}
	return v, nil
}
