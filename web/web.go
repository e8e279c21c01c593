// Package web holds the embedded HTML shells for the browser pages. The
// pages are static; all dynamic content is fetched from the JSON API.
package web

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed pages/*.html
var pages embed.FS

// Page serves the named embedded page.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := pages.ReadFile("pages/" + name + ".html")
		if err != nil {
			c.String(http.StatusNotFound, "sidan hittades inte")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
}
