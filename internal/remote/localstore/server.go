package localstore

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router that serves blob objects under
// /storage so that BlobStore.PublicURL resolves.
func NewRouter(blobs *BlobStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Static("/storage", blobs.Dir())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
