package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Tags is an ordered set of labels. It is flattened to a comma-joined string only in the database.
type Tags []string

// NewTags trims, drops empties and de-duplicates while keeping first-seen order.
func NewTags(labels ...string) Tags {
	seen := make(map[string]struct{}, len(labels))
	out := make(Tags, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(strings.ReplaceAll(l, ",", " "))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Has reports whether label is in the set.
func (t Tags) Has(label string) bool {
	for _, l := range t {
		if l == label {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return strings.Join(NewTags(t...), ","), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
	case string:
		*t = NewTags(strings.Split(v, ",")...)
	case []byte:
		*t = NewTags(strings.Split(string(v), ",")...)
	default:
		return fmt.Errorf("tags: unsupported scan type %T", src)
	}
	return nil
}

// GormDataType keeps the column a plain string on every dialect.
func (Tags) GormDataType() string {
	return "string"
}
