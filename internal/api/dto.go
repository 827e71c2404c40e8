package api

import (
	"github.com/ymzhao/vodbridge/internal/adapter"
	"github.com/ymzhao/vodbridge/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// EnvelopeResponse wraps a list payload with the upstream paging metadata
type EnvelopeResponse struct {
	Code      int         `json:"code"`
	Msg       string      `json:"msg"`
	Page      int         `json:"page"`
	PageCount int         `json:"page_count"`
	Limit     int         `json:"limit"`
	Total     int         `json:"total"`
	Data      interface{} `json:"data"`
}

// VideoResponse is a video record with its derived display fields lifted
// out of the adapter's extra-properties map.
type VideoResponse struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	TypeID     int    `json:"type_id"`
	TypeName   string `json:"type_name"`
	UpdateTime string `json:"update_time"`
	Remarks    string `json:"remarks"`
	PlayFrom   string `json:"play_from"`
	Thumbnail  string `json:"thumbnail"`
	Actor      string `json:"actor,omitempty"`
	Director   string `json:"director,omitempty"`
	Blurb      string `json:"blurb,omitempty"`
	Area       string `json:"area,omitempty"`
	Language   string `json:"language,omitempty"`
	Year       string `json:"year,omitempty"`
	Score      string `json:"score,omitempty"`
	Content    string `json:"content,omitempty"`

	FormattedDuration string `json:"formatted_duration"`
	Rating            string `json:"rating"`
	FormattedPubTime  string `json:"formatted_pub_time"`
	QualityTag        string `json:"quality_tag"`
}

// VideoDetailResponse adds the playable episodes parsed from the play-URL
type VideoDetailResponse struct {
	VideoResponse
	Episodes []models.Episode `json:"episodes"`
}

// CategoryResponse represents one category node
type CategoryResponse struct {
	ID       int    `json:"id"`
	ParentID int    `json:"parent_id"`
	Name     string `json:"name"`
	TopLevel bool   `json:"top_level"`
}

func toVideoResponse(rec models.VideoRecord) VideoResponse {
	return VideoResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		TypeID:     rec.TypeID,
		TypeName:   rec.TypeName,
		UpdateTime: rec.UpdateTime,
		Remarks:    rec.Remarks,
		PlayFrom:   rec.PlayFrom,
		Thumbnail:  rec.Thumbnail,
		Actor:      rec.Actor,
		Director:   rec.Director,
		Blurb:      rec.Blurb,
		Area:       rec.Area,
		Language:   rec.Language,
		Year:       rec.Year,
		Score:      rec.Score,
		Content:    rec.Content,

		FormattedDuration: rec.GetExtra(models.ExtraFormattedDuration),
		Rating:            rec.GetExtra(models.ExtraRating),
		FormattedPubTime:  rec.GetExtra(models.ExtraFormattedPubTime),
		QualityTag:        rec.GetExtra(models.ExtraQualityTag),
	}
}

func toVideoDetailResponse(rec models.VideoRecord) VideoDetailResponse {
	return VideoDetailResponse{
		VideoResponse: toVideoResponse(rec),
		Episodes:      adapter.ParseEpisodes(rec.PlayURL),
	}
}

func toCategoryResponse(rec models.CategoryRecord) CategoryResponse {
	return CategoryResponse{
		ID:       rec.ID,
		ParentID: rec.ParentID,
		Name:     rec.Name,
		TopLevel: rec.IsTopLevel(),
	}
}

func toVideoEnvelopeResponse(envelope *models.VideoEnvelope) EnvelopeResponse {
	videos := make([]VideoResponse, 0, len(envelope.List))
	for _, rec := range envelope.List {
		videos = append(videos, toVideoResponse(rec))
	}
	return EnvelopeResponse{
		Code:      envelope.Code,
		Msg:       envelope.Msg,
		Page:      envelope.Page,
		PageCount: envelope.PageCount,
		Limit:     int(envelope.Limit),
		Total:     envelope.Total,
		Data:      videos,
	}
}

func toCategoryEnvelopeResponse(envelope *models.CategoryEnvelope) EnvelopeResponse {
	categories := make([]CategoryResponse, 0, len(envelope.List))
	for _, rec := range envelope.List {
		categories = append(categories, toCategoryResponse(rec))
	}
	return EnvelopeResponse{
		Code:      envelope.Code,
		Msg:       envelope.Msg,
		Page:      envelope.Page,
		PageCount: envelope.PageCount,
		Limit:     int(envelope.Limit),
		Total:     envelope.Total,
		Data:      categories,
	}
}

// EndpointResponse represents one registry entry with its index
type EndpointResponse struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

// AddEndpointRequest is the body for registering an endpoint
type AddEndpointRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// SwitchEndpointRequest is the body for selecting the current endpoint
type SwitchEndpointRequest struct {
	Index *int `json:"index" binding:"required"`
}

// UpdateEndpointURLRequest is the body for rewriting the current URL
type UpdateEndpointURLRequest struct {
	URL string `json:"url" binding:"required"`
}
