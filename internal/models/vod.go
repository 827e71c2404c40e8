package models

// Derived display-field keys populated by the response adapter.
// They live in VideoRecord.Extra; core fields are never overwritten.
const (
	ExtraFormattedDuration = "formattedDuration"
	ExtraRating            = "rating"
	ExtraFormattedPubTime  = "formattedPubTime"
	ExtraQualityTag        = "qualityTag"
)

// VideoRecord represents a single VOD item as returned by a MacCMS-style
// provide/vod endpoint. Field names follow the upstream vod_* keys.
type VideoRecord struct {
	ID         int    `json:"vod_id"`
	Name       string `json:"vod_name"`
	TypeID     int    `json:"type_id"`
	TypeName   string `json:"type_name"`
	NameEn     string `json:"vod_en,omitempty"`
	UpdateTime string `json:"vod_time"`
	Remarks    string `json:"vod_remarks"`
	PlayFrom   string `json:"vod_play_from"`
	Thumbnail  string `json:"vod_pic"`
	PlayURL    string `json:"vod_play_url"`

	// Optional fields; not every upstream dialect sends them.
	Subtitle string `json:"vod_sub,omitempty"`
	Letter   string `json:"vod_letter,omitempty"`
	Actor    string `json:"vod_actor,omitempty"`
	Director string `json:"vod_director,omitempty"`
	Blurb    string `json:"vod_blurb,omitempty"`
	Area     string `json:"vod_area,omitempty"`
	Language string `json:"vod_lang,omitempty"`
	Year     string `json:"vod_year,omitempty"`
	Score    string `json:"vod_score,omitempty"`
	ScoreAll string `json:"vod_score_all,omitempty"`
	ScoreNum string `json:"vod_score_num,omitempty"`
	Content  string `json:"vod_content,omitempty"`

	// Extra holds computed display fields keyed by the Extra* constants.
	// It is populated by the adapter and read-only to everything downstream.
	Extra map[string]any `json:"-"`
}

// GetExtra returns the string value stored under key, or "" when absent
// or not a string.
func (v *VideoRecord) GetExtra(key string) string {
	if v.Extra == nil {
		return ""
	}
	s, _ := v.Extra[key].(string)
	return s
}

// CategoryRecord represents one category from a class listing. Categories
// form a two-level tree: ParentID 0 marks a top-level category.
type CategoryRecord struct {
	ID       int    `json:"type_id"`
	ParentID int    `json:"type_pid"`
	Name     string `json:"type_name"`
}

// IsTopLevel reports whether the category has no parent.
func (c CategoryRecord) IsTopLevel() bool {
	return c.ParentID == 0
}

// Episode is one playable segment decoded from a record's play-URL string.
type Episode struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
