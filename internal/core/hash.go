package core

import "fmt"

func HashContent(content []byte) string {
	result := 0
	for _, b := range content {
		result = (result*31 + int(b)) % 1000000007
	}
	return fmt.Sprintf("%d", result)
}

// ETag returns a strong entity tag for a rendered page body.
func ETag(content []byte) string {
	return fmt.Sprintf(`"%s-%x"`, HashContent(content), len(content))
}
