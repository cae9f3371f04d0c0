package summary

import (
	"encoding/json"

	"github.com/jmespath/go-jmespath"
)

// MaxLength is the number of characters kept from an error message.
const MaxLength = 100

var (
	errorName    = jmespath.MustCompile("error.name")
	errorMessage = jmespath.MustCompile("error.message")
)

// Extract returns "<name>: <message>" when message is a JSON object carrying
// an error with string name and message fields.
func Extract(message string) (string, bool) {
	var doc any
	if err := json.Unmarshal([]byte(message), &doc); err != nil {
		return "", false
	}

	name, ok := searchString(errorName, doc)
	if !ok {
		return "", false
	}
	msg, ok := searchString(errorMessage, doc)
	if !ok {
		return "", false
	}
	return name + ": " + Truncate(msg, MaxLength), true
}

// Summarize never fails: anything that is not a structured error is reported
// as its raw text.
func Summarize(message string) string {
	if s, ok := Extract(message); ok {
		return s
	}
	return Truncate(message, MaxLength)
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func searchString(expr *jmespath.JMESPath, doc any) (string, bool) {
	v, err := expr.Search(doc)
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
