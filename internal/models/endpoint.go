package models

import "strings"

// EndpointDescriptor is one named upstream API base URL. The URL is
// stored in normalized form (always ends with "/").
type EndpointDescriptor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NormalizeEndpointURL appends the trailing path separator requests are
// built against. Stored and compared URLs are always in this form.
func NormalizeEndpointURL(url string) string {
	if !strings.HasSuffix(url, "/") {
		return url + "/"
	}
	return url
}

// Setting is a durable key-value row. The endpoint registry persists as
// a JSON array under SettingKeyEndpoints plus a current-index integer
// under SettingKeyCurrentIndex.
type Setting struct {
	Key   string `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}

// Stable storage keys for the endpoint registry.
const (
	SettingKeyEndpoints    = "api_endpoints"
	SettingKeyCurrentIndex = "current_api_index"
)
