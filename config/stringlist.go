package config

import "fmt"

// StringList accepts either a bare string or a list of strings in TOML.
// Both shapes normalize to a slice before anything downstream sees them,
// so the checker never branches on input shape.
type StringList []string

// UnmarshalTOML implements toml.Unmarshaler.
func (s *StringList) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*s = StringList{val}
	case []any:
		out := make(StringList, 0, len(val))
		for _, item := range val {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string, found %T", item)
			}
			out = append(out, str)
		}
		*s = out
	default:
		return fmt.Errorf("expected string or list of strings, found %T", v)
	}
	return nil
}
