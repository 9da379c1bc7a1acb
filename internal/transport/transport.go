package transport

import (
	"github.com/ds124wfegd/imagehist/internal/transport/middleware"
	"github.com/ds124wfegd/imagehist/internal/web"
	"github.com/gin-gonic/gin"
)

func InitRoutes(imgHandler *ImageHandler) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = imgHandler.opts.MaxBytes

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	router.SetHTMLTemplate(web.Templates())

	// Health check
	router.GET("/health", imgHandler.Health)
	router.GET("/info", imgHandler.Info)

	router.GET("/", imgHandler.Index)
	router.GET("/uploads/:name", imgHandler.GetImage)

	limited := router.Group("/")
	limited.Use(middleware.BodyLimit(imgHandler.opts.MaxBytes))
	limited.Use(middleware.Timeout(imgHandler.opts.Timeout))
	{
		limited.POST("/upload", imgHandler.Upload)
		limited.POST("/api/v1/analyze", imgHandler.Analyze)
	}

	api := router.Group("/api/v1")
	{
		api.DELETE("/images/:id", imgHandler.DeleteImage)
	}

	return router
}
