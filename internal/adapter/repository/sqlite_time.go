package repository

import (
	"fmt"
	"time"
)

var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

// sqliteTime scans DATETIME columns whether the driver hands back a
// time.Time (declared column) or raw text (RETURNING clauses).
type sqliteTime struct{ dst *time.Time }

func (s sqliteTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s.dst = time.Time{}
		return nil
	case time.Time:
		*s.dst = v
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("unsupported sqlite time value %T", value)
	}
}

func (s sqliteTime) parse(text string) error {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			*s.dst = t
			return nil
		}
	}
	return fmt.Errorf("parse sqlite time %q", text)
}
