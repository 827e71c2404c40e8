package adapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ymzhao/vodbridge/internal/models"
)

// Sentinel values used when a source field carries nothing usable.
const (
	UnknownDuration = "未知时长"
	NoRating        = "暂无评分"
	UnknownTime     = "未知时间"

	QualityHD       = "高清"
	Quality4K       = "超清4K"
	QualityStandard = "标清"
)

var (
	durationPattern = regexp.MustCompile(`(\d+)分钟`)
	ratingPattern   = regexp.MustCompile(`(\d+(\.\d+)?)分`)
)

// Adapter transforms a raw upstream envelope into one whose records carry
// the derived display fields. Implementations must be pure: no I/O, no
// mutation of the input, total over any well-typed envelope.
type Adapter interface {
	Adapt(envelope *models.VideoEnvelope) *models.VideoEnvelope
}

// Passthrough returns responses unchanged.
type Passthrough struct{}

// Adapt implements Adapter.
func (Passthrough) Adapt(envelope *models.VideoEnvelope) *models.VideoEnvelope {
	return envelope
}

// Display derives the display fields (formatted duration, rating,
// publish time, quality tag) for every record in an envelope.
type Display struct{}

// Adapt returns a new envelope whose records have Extra populated with
// the four derived fields. Record ordering, core fields, and the embedded
// category list pass through untouched.
func (Display) Adapt(envelope *models.VideoEnvelope) *models.VideoEnvelope {
	if envelope == nil {
		return nil
	}

	out := *envelope
	out.List = make([]models.VideoRecord, len(envelope.List))
	for i, rec := range envelope.List {
		// Fresh record and map per call so reused source records never
		// alias a previously derived set.
		enriched := rec
		enriched.Extra = map[string]any{
			models.ExtraFormattedDuration: FormatDuration(rec.Remarks),
			models.ExtraRating:            ExtractRating(rec.Remarks),
			models.ExtraFormattedPubTime:  FormatPubTime(rec.UpdateTime),
			models.ExtraQualityTag:        QualityTag(rec.Name),
		}
		out.List[i] = enriched
	}
	return &out
}

// FormatDuration scans remarks for a "<N>分钟" run time and renders it as
// hours+minutes once it reaches a full hour. Missing or zero durations
// degrade to UnknownDuration.
func FormatDuration(remarks string) string {
	minutes := 0
	if m := durationPattern.FindStringSubmatch(remarks); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	switch {
	case minutes >= 60:
		return fmt.Sprintf("%d小时%d分钟", minutes/60, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%d分钟", minutes)
	default:
		return UnknownDuration
	}
}

// ExtractRating pulls a "<score>分" rating out of remarks and returns the
// matched numeric text as-is, or NoRating when remarks carry none.
func ExtractRating(remarks string) string {
	if m := ratingPattern.FindStringSubmatch(remarks); m != nil {
		return m[1]
	}
	return NoRating
}

// FormatPubTime normalizes the free-text update time. A bare 10-character
// date gets a midnight time appended; anything else passes through.
func FormatPubTime(updateTime string) string {
	switch {
	case strings.TrimSpace(updateTime) == "":
		return UnknownTime
	case len(updateTime) == 10:
		return updateTime + " 00:00:00"
	default:
		return updateTime
	}
}

// QualityTag classifies a title by embedded quality markers. "HD" is
// checked before "4K"; first match wins.
func QualityTag(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "HD"):
		return QualityHD
	case strings.Contains(upper, "4K"):
		return Quality4K
	default:
		return QualityStandard
	}
}

// ParseEpisodes decodes a play-URL string into its playable episodes.
// Episodes are "#"-separated "<name>$<url>" pairs; entries without a
// usable http(s) URL are dropped silently.
func ParseEpisodes(playURL string) []models.Episode {
	if playURL == "" {
		return nil
	}

	var episodes []models.Episode
	for _, part := range strings.Split(playURL, "#") {
		name, rawURL, found := strings.Cut(part, "$")
		if !found {
			continue
		}
		// A second "$" would start the next play source; keep only the URL.
		if idx := strings.Index(rawURL, "$"); idx >= 0 {
			rawURL = rawURL[:idx]
		}
		url := strings.TrimSpace(rawURL)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}
		episodes = append(episodes, models.Episode{Name: name, URL: url})
	}
	return episodes
}
