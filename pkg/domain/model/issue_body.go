package model

import "strings"

// IssueField is a "key: value" line of an issue body
type IssueField struct {
	Key   string
	Value string
}

// ParseIssueBody extracts fields from every line containing a colon. The line is split on the
// first colon and both sides are trimmed. A repeated key keeps its first position and last value.
func ParseIssueBody(text string) []IssueField {
	var fields []IssueField
	index := map[string]int{}

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if i, found := index[key]; found {
			fields[i].Value = value
			continue
		}
		index[key] = len(fields)
		fields = append(fields, IssueField{Key: key, Value: value})
	}

	return fields
}

// IsUpdateRequestTitle returns true if title is empty or marks a package update request
func IsUpdateRequestTitle(title string) bool {
	return title == "" || strings.Contains(title, TitlePrefix)
}
