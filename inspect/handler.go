package inspect

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/depengine/di"
	apperrors "github.com/kbukum/depengine/errors"
	"github.com/kbukum/depengine/logger"
)

// DefaultBasePath is the route prefix used when none is configured.
const DefaultBasePath = "/debug/di"

// Inspectable is the read-only part of a registry the handlers need.
// di.Container satisfies it.
type Inspectable interface {
	Len() int
	Registrations() []di.RegistrationInfo
}

type options struct {
	basePath string
	log      *logger.Logger
}

// Option configures Handler.
type Option func(*options)

// WithBasePath mounts the routes under path. An empty path is ignored.
func WithBasePath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.basePath = "/" + strings.Trim(path, "/")
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Handler builds the gin engine serving the inspection routes for c.
func Handler(c Inspectable, opts ...Option) http.Handler {
	o := options{basePath: DefaultBasePath}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("inspect")
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(Recovery(o.log), RequestID(), RequestLogger(o.log))

	group := engine.Group(o.basePath)
	group.GET("/registrations", listRegistrations(c))
	group.GET("/registrations/:type", getRegistration(c))
	group.GET("/health", health(c))

	return engine
}

func listRegistrations(c Inspectable) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		respondOK(ctx, c.Registrations())
	}
}

// getRegistration matches the path parameter against the qualified type
// name first, then the bare name.
func getRegistration(c Inspectable) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		name := ctx.Param("type")
		infos := c.Registrations()
		for _, info := range infos {
			if info.Type == name {
				respondOK(ctx, info)
				return
			}
		}
		for _, info := range infos {
			if info.Key.Name() == name {
				respondOK(ctx, info)
				return
			}
		}
		respondWithError(ctx, apperrors.NotFound(name))
	}
}

func health(c Inspectable) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"registrations": c.Len(),
		})
	}
}
