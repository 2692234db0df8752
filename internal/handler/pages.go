package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const placeholderPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>PassItOn</title></head>
<body><div id="root">PassItOn</div></body>
</html>
`

// PageRoutes lists the browser routes that render the single-page shell.
var PageRoutes = []string{
	"/",
	"/auth/login",
	"/auth/signup",
	"/dashboard",
	"/dashboard/*rest",
	"/list-opportunity",
	"/list-opportunity/*rest",
	"/seller",
	"/search",
	"/opportunities",
	"/product/:id",
	"/admin",
	"/admin/*rest",
}

// PageHandler serves the web shell. It holds no identity logic; the Gate
// in front of it decides who may see each page.
type PageHandler struct {
	index     string
	staticDir string
}

func NewPageHandler(webDir string) *PageHandler {
	return &PageHandler{
		index:     filepath.Join(webDir, "index.html"),
		staticDir: filepath.Join(webDir, "static"),
	}
}

func (h *PageHandler) StaticDir() string {
	return h.staticDir
}

func (h *PageHandler) Shell(c *gin.Context) {
	if info, err := os.Stat(h.index); err == nil && !info.IsDir() {
		c.File(h.index)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderPage))
}
