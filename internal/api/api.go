package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ymzhao/vodbridge/internal/endpoint"
	"github.com/ymzhao/vodbridge/internal/maccms"
)

// Server represents the API server
type Server struct {
	router  *gin.Engine
	facade  *maccms.Facade
	binding *maccms.Binding
	store   *endpoint.Store
}

// NewServer creates a new API server instance
func NewServer(facade *maccms.Facade, binding *maccms.Binding, store *endpoint.Store) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())
	router.Use(cors.Default())

	s := &Server{
		router:  router,
		facade:  facade,
		binding: binding,
		store:   store,
	}

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Handler exposes the router, primarily for tests and custom servers
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		// Normalized query surface
		v1.GET("/categories", s.listCategories)
		v1.GET("/videos", s.listVideos)
		v1.GET("/videos/recent", s.listRecentVideos)
		v1.GET("/videos/search", s.searchVideos)
		v1.GET("/videos/filter", s.filterVideos)
		v1.GET("/videos/:id", s.getVideoDetail)

		// Endpoint registry
		v1.GET("/endpoints", s.listEndpoints)
		v1.POST("/endpoints", s.addEndpoint)
		v1.DELETE("/endpoints/:index", s.removeEndpoint)
		v1.GET("/endpoints/current", s.getCurrentEndpoint)
		v1.PUT("/endpoints/current", s.switchEndpoint)
		v1.PUT("/endpoints/current/url", s.updateCurrentEndpointURL)
	}
}
