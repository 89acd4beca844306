package httpapi

import (
	"net/http"

	"chirp/internal/adapters/httpapi/middleware"
	"chirp/internal/core/apperr"
	"chirp/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	pc     PostUseCase
	col    *metrics.Collector
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, col *metrics.Collector, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, col: col, logger: logger}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ctl.col.RecordPostRejected(apperr.KindValidation.String())
		writeError(c, ctl.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHENTICATED",
			"message": "no caller identity",
		})
		return
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		ctl.col.RecordPostRejected(apperr.KindOf(err).String())
		writeError(c, ctl.logger, err)
		return
	}

	ctl.col.RecordPostCreated()
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) GetAll(c *gin.Context) {
	posts, err := ctl.pc.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *PostController) GetPostsByUserID(c *gin.Context) {
	posts, err := ctl.pc.GetPostsByAuthorID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *PostController) GetPostByID(c *gin.Context) {
	post, err := ctl.pc.GetPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
