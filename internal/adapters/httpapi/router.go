package httpapi

import (
	"context"
	"net/http"

	"chirp/internal/adapters/httpapi/middleware"
	"chirp/internal/metrics"
	postPort "chirp/internal/ports/post"
	userPort "chirp/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostUseCase is the inbound port the post controller needs.
type PostUseCase interface {
	CreatePost(ctx context.Context, authorID, content string) (*postPort.PostDTO, error)
	GetAll(ctx context.Context) ([]*postPort.PostWithAuthorDTO, error)
	GetPostsByAuthorID(ctx context.Context, authorID string) ([]*postPort.PostWithAuthorDTO, error)
	GetPostByID(ctx context.Context, id string) (*postPort.PostWithAuthorDTO, error)
}

type ProfileUseCase interface {
	GetUserByUsername(ctx context.Context, username string) (*userPort.ProfileDTO, error)
}

// RouterConfig carries the cross-cutting pieces the router wires in front of
// the controllers. Zero values are safe for tests: a nop logger, a fresh
// collector and no edge limiter.
type RouterConfig struct {
	JWTSecret   []byte
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	EdgeLimiter *middleware.ClientRateLimiter
}

// SetupRoutes builds the gin engine; use cases are injected from outside.
func SetupRoutes(postUC PostUseCase, profileUC ProfileUseCase, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewCollector()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Observe(cfg.Metrics))
	if cfg.EdgeLimiter != nil {
		r.Use(cfg.EdgeLimiter.Middleware())
	}

	pc := NewPostController(postUC, cfg.Metrics, cfg.Logger)
	prc := NewProfileController(profileUC, cfg.Logger)

	api := r.Group("/api")
	api.GET("/posts", pc.GetAll)
	api.GET("/posts/:id", pc.GetPostByID)
	api.GET("/users/:userId/posts", pc.GetPostsByUserID)
	api.POST("/posts", middleware.AuthRequired(cfg.JWTSecret), pc.CreatePost)
	api.GET("/profiles/:username", prc.GetUserByUsername)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	return r
}
