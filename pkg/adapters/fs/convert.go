package fs

import (
	"strconv"
	"strings"
)

// parseBool reads a boolean token: "true"/"false" in any case, otherwise any
// integer (nonzero meaning true). Anything else is false and reported.
func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
