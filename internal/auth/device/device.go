// Package device turns a raw User-Agent into the short label stored on audit events.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const maxLabelLength = 64

// Label returns "Browser on OS" (e.g. "Chrome on macOS", "Safari on iPhone").
// Mobile agents use the platform instead of the OS string.
func Label(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	if ua.Bot() {
		name, _ := ua.Browser()
		if name == "" {
			name = "Bot"
		}
		return truncate("Bot: " + name)
	}

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return truncate(strings.TrimSpace(browser + " on " + platform))
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return truncate(strings.TrimSpace(browser + " on " + os))
}

func truncate(label string) string {
	if len(label) <= maxLabelLength {
		return label
	}
	return label[:maxLabelLength]
}
