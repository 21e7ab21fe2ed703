// Package response adapts http frameworks to the exporter's download response.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opdss/dataexporter/contracts/exporter"
)

var (
	_ exporter.Response = (*Recorder)(nil)
	_ exporter.Response = (*Writer)(nil)
	_ exporter.Response = (*Gin)(nil)
)

// Recorder keeps the download response in memory.
type Recorder struct {
	Header http.Header
	Body   []byte
}

func NewRecorder() *Recorder {
	return &Recorder{Header: make(http.Header)}
}

func (r *Recorder) SetHeader(name, value string) {
	r.Header.Set(name, value)
}

func (r *Recorder) SetBody(body []byte) error {
	r.Body = append(r.Body[:0], body...)
	return nil
}

// Writer writes the download to a net/http ResponseWriter.
// Headers must be set before the body, the status is 200.
type Writer struct {
	w http.ResponseWriter
}

func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w}
}

func (w *Writer) SetHeader(name, value string) {
	w.w.Header().Set(name, value)
}

func (w *Writer) SetBody(body []byte) error {
	w.w.WriteHeader(http.StatusOK)
	_, err := w.w.Write(body)
	return err
}

// Gin writes the download through a gin context.
type Gin struct {
	c *gin.Context
}

func NewGin(c *gin.Context) *Gin {
	return &Gin{c: c}
}

func (g *Gin) SetHeader(name, value string) {
	g.c.Header(name, value)
}

func (g *Gin) SetBody(body []byte) error {
	g.c.Status(http.StatusOK)
	_, err := g.c.Writer.Write(body)
	return err
}
