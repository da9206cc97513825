package model

import (
	"strings"
)

// DefaultTagName is the struct tag key read by the default registry.
const DefaultTagName = "lappa"

// Tag represents a parsed lappa struct tag
type Tag struct {
	Column     string
	Ignore     bool
	PrimaryKey bool
	AutoInc    bool
	ReadOnly   bool
}

// ParseTag parses a tag string such as `column:user_name pk auto`.
// Space, semicolon and comma are all accepted as separators.
func ParseTag(tagStr string) *Tag {
	tag := &Tag{}
	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "" {
		return tag
	}
	if tagStr == "-" {
		tag.Ignore = true
		return tag
	}

	parts := strings.FieldsFunc(tagStr, func(r rune) bool {
		return r == ' ' || r == ';' || r == ',' || r == '\t'
	})

	for _, part := range parts {
		kv := strings.SplitN(part, ":", 2)
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		var val string
		if len(kv) > 1 {
			val = strings.TrimSpace(kv[1])
		}

		switch key {
		case "column":
			tag.Column = val
		case "-":
			tag.Ignore = true
		case "pk":
			tag.PrimaryKey = true
		case "auto":
			tag.AutoInc = true
		case "readonly", "ro":
			tag.ReadOnly = true
		}
	}
	return tag
}
