package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/export"
	"github.com/opdss/dataexporter/response"
)

// ExportRequest 导出请求
type ExportRequest struct {
	Columns []ExportColumn `json:"columns" binding:"required"`
	Rows    []any          `json:"rows"`
	Options map[string]any `json:"options"`
}

type ExportColumn struct {
	Field string `json:"field" binding:"required"`
	Title string `json:"title"`
	Hook  string `json:"hook"`
}

func (s *Server) routes() {
	s.GET("/formats", s.formats)
	s.POST("/export/:format", s.export)
}

func (s *Server) formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": export.Formats()})
}

func (s *Server) export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	//下载接口不支持内存模式
	delete(req.Options, export.OptMemory)

	cols := make([]export.Column, len(req.Columns))
	for i, col := range req.Columns {
		cols[i] = export.Column{Field: col.Field, Title: col.Title}
		if col.Hook == "" {
			continue
		}
		h := export.BuiltinHooks[col.Hook]
		if h == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown hook " + col.Hook})
			return
		}
		cols[i].Hook = h
	}

	e, err := export.NewExporter().Configure(c.Param("format"), req.Options, export.WithLogger(s.logger))
	if err == nil {
		err = e.DeclareColumns(cols...)
	}
	if err == nil {
		err = e.IngestRows(req.Rows)
	}
	if err == nil {
		_, err = e.Render(response.NewGin(c))
	}
	if err != nil {
		s.logger.Warn("export request failed", zap.String("format", c.Param("format")), zap.Error(err))
		c.JSON(statusOf(err), gin.H{"error": err.Error()})
	}
}

func statusOf(err error) int {
	switch {
	case export.ErrUnsupportedFormat.Has(err):
		return http.StatusNotFound
	case export.ErrInvalidConfiguration.Has(err),
		export.ErrNotConfigured.Has(err),
		export.ErrFieldResolution.Has(err),
		export.ErrInvalidRows.Has(err),
		export.ErrInvalidHookArity.Has(err),
		export.ErrUnknownHookColumn.Has(err),
		export.ErrHookNotCallable.Has(err),
		export.ErrHookReturnType.Has(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
