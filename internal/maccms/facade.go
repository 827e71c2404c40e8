package maccms

import (
	"context"
	"strconv"

	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/logger"
	"github.com/ymzhao/vodbridge/internal/models"
)

// Sort orders accepted by CategoryVideos.
const (
	OrderByTime  = "time"
	OrderByHits  = "hits"
	OrderByScore = "score"
)

// Filter keys recognized by FilterVideos. Only FilterType is applied
// upstream; year and area are filtered on the returned page in memory.
const (
	FilterType = "type"
	FilterYear = "year"
	FilterArea = "area"
	FilterLang = "lang"
)

// Facade is the one query surface over the upstream API. Transport and
// configuration failures return errors; upstream logical failures
// (non-success code) come back as degraded envelopes with empty lists.
type Facade struct {
	binding *Binding
	logger  *logger.Logger
}

// NewFacade creates a facade over the given binding
func NewFacade(binding *Binding) *Facade {
	return &Facade{
		binding: binding,
		logger:  logger.AppLogger(),
	}
}

// AllCategories returns the full two-level category tree
func (f *Facade) AllCategories(ctx context.Context) (*models.CategoryEnvelope, error) {
	envelope, err := f.binding.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		return models.Degraded[models.CategoryRecord](envelope.Code, envelope.Msg), nil
	}

	out := *envelope
	out.List = envelope.Categories()
	if len(out.List) == 0 && len(envelope.List) > 0 {
		// Some dialects put categories straight into the list.
		out.List = envelope.List
	}
	out.Total = len(out.List)
	return &out, nil
}

// CategoryVideos returns one page of videos in a category. The order
// argument is validated but not forwarded; the upstream list call has no
// server-side ordering parameter.
func (f *Facade) CategoryVideos(ctx context.Context, typeID, page, limit int, order string) (*models.VideoEnvelope, error) {
	switch order {
	case "", OrderByTime, OrderByHits, OrderByScore:
	default:
		return nil, apperrors.ValidationError("unknown order: " + order)
	}

	envelope, err := f.binding.VideoList(ctx, ListParams{
		Page:   normalizePage(page),
		TypeID: &typeID,
	})
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		return models.Degraded[models.VideoRecord](envelope.Code, envelope.Msg), nil
	}
	return envelope, nil
}

// VideoDetail returns the full record for one video
func (f *Facade) VideoDetail(ctx context.Context, id int) (*models.VideoEnvelope, error) {
	envelope, err := f.binding.VideoDetail(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		f.logger.WithFields(map[string]interface{}{
			"vod_id": id,
			"code":   envelope.Code,
			"msg":    envelope.Msg,
		}).Warn("upstream rejected detail request")
		return models.Degraded[models.VideoRecord](envelope.Code, envelope.Msg), nil
	}
	return envelope, nil
}

// SearchVideos returns one page of videos matching keyword
func (f *Facade) SearchVideos(ctx context.Context, keyword string, page, limit int) (*models.VideoEnvelope, error) {
	envelope, err := f.binding.VideoList(ctx, ListParams{
		Page:    normalizePage(page),
		Keyword: keyword,
	})
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		return models.Degraded[models.VideoRecord](envelope.Code, envelope.Msg), nil
	}
	return envelope, nil
}

// RecentVideos returns one page of recently updated videos, optionally
// restricted to the last hours window.
func (f *Facade) RecentVideos(ctx context.Context, page, limit int, hours *int) (*models.VideoEnvelope, error) {
	envelope, err := f.binding.VideoList(ctx, ListParams{
		Page:  normalizePage(page),
		Hours: hours,
	})
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		return models.Degraded[models.VideoRecord](envelope.Code, envelope.Msg), nil
	}
	return envelope, nil
}

// FilterVideos applies the given filters to a video listing. The type
// filter goes upstream; year and area are matched against the returned
// page only, and Total reflects the post-filter length of that page.
func (f *Facade) FilterVideos(ctx context.Context, filters map[string]string, page, limit int) (*models.VideoEnvelope, error) {
	params := ListParams{Page: normalizePage(page)}
	if raw, ok := filters[FilterType]; ok {
		typeID, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperrors.ValidationError("type filter must be numeric: " + raw)
		}
		params.TypeID = &typeID
	}

	envelope, err := f.binding.VideoList(ctx, params)
	if err != nil {
		return nil, err
	}
	if !envelope.OK() {
		return models.Degraded[models.VideoRecord](envelope.Code, envelope.Msg), nil
	}

	year := filters[FilterYear]
	area := filters[FilterArea]
	if year == "" && area == "" {
		return envelope, nil
	}

	filtered := make([]models.VideoRecord, 0, len(envelope.List))
	for _, rec := range envelope.List {
		if year != "" && rec.Year != year {
			continue
		}
		if area != "" && rec.Area != area {
			continue
		}
		filtered = append(filtered, rec)
	}

	out := *envelope
	out.List = filtered
	out.Total = len(filtered)
	return &out, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
