package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/web"
)

func registerUI(router *gin.Engine) {
	index := web.Index()
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	router.StaticFS("/static", http.FS(web.Assets()))
}
