package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/kerbaras/storysite/pkg/data"
)

// splitTOML handles a `+++` delimited TOML frontmatter block.
func splitTOML(str string) (map[string]string, string, error) {
	parts := strings.SplitN(str, tomlDelimiter, 3)
	if len(parts) < 3 {
		return nil, "", fmt.Errorf("%w: frontmatter is not closed with %s", data.ErrFormat, tomlDelimiter)
	}

	var fm map[string]interface{}
	if err := toml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return nil, "", fmt.Errorf("%w: invalid TOML frontmatter: %v", data.ErrFormat, err)
	}

	meta := make(map[string]string, len(fm))
	for key, value := range fm {
		meta[key] = stringify(value)
	}
	return meta, strings.TrimSpace(parts[2]), nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case toml.LocalDate, toml.LocalDateTime, toml.LocalTime:
		return fmt.Sprint(v)
	case []interface{}:
		items := make([]string, len(v))
		for i := range v {
			items[i] = stringify(v[i])
		}
		return strings.Join(items, ", ")
	default:
		return fmt.Sprint(v)
	}
}
