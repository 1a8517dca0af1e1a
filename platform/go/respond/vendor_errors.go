package respond

import "strings"

// vendorRule pairs message substrings with the human message to surface.
type vendorRule struct {
	patterns []string
	message  string
}

// Ordered classification table for Mux error messages. Precedence lives
// here and nowhere else; matching is case-insensitive substring search.
var vendorRules = []vendorRule{
	{
		patterns: []string{"404", "not found"},
		message:  "Video not found on Mux. It may still be uploading or processing.",
	},
	{
		patterns: []string{"401", "unauthorized"},
		message:  "Mux authentication failed. Check the configured access token.",
	},
	{
		patterns: []string{"403", "forbidden"},
		message:  "Access to this Mux asset was denied.",
	},
}

// ClassifyVendorError maps a raw vendor error message onto the message shown
// to callers. Unrecognized messages pass through behind a generic prefix.
func ClassifyVendorError(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range vendorRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowered, pattern) {
				return rule.message
			}
		}
	}
	return "Mux API error: " + message
}
