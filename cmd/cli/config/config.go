package config

import "os"

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the guestbook API.
// It can be overridden with the GUESTBOOK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("GUESTBOOK_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}
