package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ymzhao/vodbridge/internal/database"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	"github.com/ymzhao/vodbridge/internal/maccms"
	"github.com/ymzhao/vodbridge/internal/models"
)

func (s *Server) healthCheck(c *gin.Context) {
	if err := database.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"bound":  s.binding.Bound(),
	})
}

func (s *Server) listCategories(c *gin.Context) {
	envelope, err := s.facade.AllCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Optional parent_id narrows to one branch of the two-level tree.
	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, apperrors.ValidationError("parent_id must be numeric"))
			return
		}
		branch := make([]models.CategoryRecord, 0, len(envelope.List))
		for _, cat := range envelope.List {
			if cat.ParentID == parentID {
				branch = append(branch, cat)
			}
		}
		out := *envelope
		out.List = branch
		out.Total = len(branch)
		envelope = &out
	}

	c.JSON(http.StatusOK, toCategoryEnvelopeResponse(envelope))
}

func (s *Server) listVideos(c *gin.Context) {
	typeID, err := strconv.Atoi(c.Query("type_id"))
	if err != nil {
		abortWithError(c, apperrors.ValidationError("type_id is required and must be numeric"))
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	order := c.DefaultQuery("order", maccms.OrderByTime)

	envelope, err := s.facade.CategoryVideos(c.Request.Context(), typeID, page, limit, order)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoEnvelopeResponse(envelope))
}

func (s *Server) listRecentVideos(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var hours *int
	if raw := c.Query("hours"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, apperrors.ValidationError("hours must be numeric"))
			return
		}
		hours = &h
	}

	envelope, err := s.facade.RecentVideos(c.Request.Context(), page, limit, hours)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoEnvelopeResponse(envelope))
}

func (s *Server) searchVideos(c *gin.Context) {
	keyword := c.Query("wd")
	if keyword == "" {
		abortWithError(c, apperrors.ValidationError("wd is required"))
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	envelope, err := s.facade.SearchVideos(c.Request.Context(), keyword, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoEnvelopeResponse(envelope))
}

func (s *Server) filterVideos(c *gin.Context) {
	page, limit, err := pagination(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	filters := map[string]string{}
	for _, key := range []string{maccms.FilterType, maccms.FilterYear, maccms.FilterArea, maccms.FilterLang} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	envelope, err := s.facade.FilterVideos(c.Request.Context(), filters, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoEnvelopeResponse(envelope))
}

func (s *Server) getVideoDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, apperrors.ValidationError("id must be numeric"))
		return
	}

	envelope, err := s.facade.VideoDetail(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(envelope.List) == 0 {
		abortWithError(c, apperrors.NotFoundError("video", strconv.Itoa(id)).
			WithContext("upstream_msg", envelope.Msg))
		return
	}

	c.JSON(http.StatusOK, toVideoDetailResponse(envelope.List[0]))
}

func (s *Server) listEndpoints(c *gin.Context) {
	endpoints, err := s.store.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	current, err := s.store.Current()
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]EndpointResponse, 0, len(endpoints))
	for i, ep := range endpoints {
		out = append(out, EndpointResponse{
			Index:   i,
			Name:    ep.Name,
			URL:     ep.URL,
			Current: current != nil && current.URL == ep.URL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": out})
}

func (s *Server) addEndpoint(c *gin.Context) {
	var req AddEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.ValidationError("name and url are required"))
		return
	}
	if err := s.store.Add(req.Name, req.URL); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "endpoint registered"})
}

func (s *Server) removeEndpoint(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, apperrors.ValidationError("index must be numeric"))
		return
	}
	if err := s.store.Remove(index); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "endpoint removed"})
}

func (s *Server) getCurrentEndpoint(c *gin.Context) {
	current, err := s.store.Current()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if current == nil {
		abortWithError(c, apperrors.NoCurrentEndpoint())
		return
	}
	c.JSON(http.StatusOK, current)
}

func (s *Server) switchEndpoint(c *gin.Context) {
	var req SwitchEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.ValidationError("index is required"))
		return
	}
	if err := s.store.Switch(*req.Index); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "endpoint switched"})
}

func (s *Server) updateCurrentEndpointURL(c *gin.Context) {
	var req UpdateEndpointURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.ValidationError("url is required"))
		return
	}
	if err := s.store.UpdateCurrentURL(req.URL); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "endpoint URL updated"})
}

func pagination(c *gin.Context) (page, limit int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, apperrors.ValidationError("page must be a positive integer")
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		return 0, 0, apperrors.ValidationError("limit must be a positive integer")
	}
	return page, limit, nil
}
