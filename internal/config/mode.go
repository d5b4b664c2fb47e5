package config

// DetectDev reports whether POSTPAGE_DEV asks for development mode.
func DetectDev(getenv func(string) string) bool {
	switch getenv("POSTPAGE_DEV") {
	case "1", "true":
		return true
	}
	return false
}
