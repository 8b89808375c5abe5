// Package httpapi exposes the changeset webhook over HTTP. Repository
// post-receive hooks POST changeset events here; the engine applies them
// and the per-ticket outcomes are returned to the caller.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/ports/primary"
)

// NewRouter builds the gin engine serving the webhook endpoints.
func NewRouter(appEnv string, log zerolog.Logger, listener primary.ChangeListener) *gin.Engine {
	if appEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
	})

	h := NewHandlers(log, listener)

	r.GET("/healthz", h.Healthz)
	r.POST("/api/changesets", h.Changeset)

	return r
}
