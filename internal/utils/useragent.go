package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string. Admin
// sessions record it so the dashboard can show where a login came from.
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, desktop, bot, unknown
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		DeviceType: "desktop",
		OS:         parser.OS(),
		Raw:        userAgent,
	}
	if parser.Mobile() {
		info.DeviceType = "mobile"
	}
	if parser.Bot() {
		info.DeviceType = "bot"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	name, version := parser.Browser()
	switch {
	case name == "":
		info.Browser = "Unknown"
	case version == "":
		info.Browser = name
	default:
		info.Browser = name + " " + version
	}

	return info
}
