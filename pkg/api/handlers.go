package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yleoer/lyrics/pkg/database"
	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/parser"
	"github.com/yleoer/lyrics/pkg/processor"
)

// parseRequest 是即时解析接口的请求体
type parseRequest struct {
	Name         string `json:"name"`
	Lyrics       string `json:"lyrics" binding:"required"`
	Fallback     string `json:"fallback"`
	Translation  string `json:"translation"`
	Romanization string `json:"romanization"`
	DurationMs   int64  `json:"durationMs"`
}

func (req parseRequest) source() lyric.Source {
	return lyric.Source{
		Name:         req.Name,
		Lyrics:       req.Lyrics,
		Fallback:     req.Fallback,
		Translation:  req.Translation,
		Romanization: req.Romanization,
		DurationMs:   req.DurationMs,
	}
}

// handleHealth 健康检查
func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListLyrics 获取已处理歌词列表
func (r *Router) handleListLyrics(c *gin.Context) {
	lyrics, err := r.store.ListLyrics()
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lyrics": lyrics})
}

// handleGetLyric 按路径获取一首歌的合并结果，format=lrc 时返回 LRC 文本
func (r *Router) handleGetLyric(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing path"})
		return
	}
	rec, err := r.store.GetLyric(path)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "lyric not found"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if c.Query("format") == "lrc" {
		c.String(http.StatusOK, lyric.FormatLRC(rec.Metadata, rec.Lines, lyric.FormatOptions{Words: true, Translation: true}))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleParse 即时解析请求体中的歌词，不写入数据库
// dialect 为空或 auto 时自动选择主歌词格式，否则强制使用指定格式。
func (r *Router) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	dialect, err := parser.ParseDialect(c.Query("dialect"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := r.processor.BuildAs(dialect, req.source())
	if errors.Is(err, processor.ErrNoLyrics) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "lrc" {
		c.String(http.StatusOK, lyric.FormatLRC(rec.Metadata, rec.Lines, lyric.FormatOptions{Words: true, Translation: true}))
		return
	}
	c.JSON(http.StatusOK, rec)
}
