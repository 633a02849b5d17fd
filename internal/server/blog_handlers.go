package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/foliogate-dev/foliogate/internal/models"
)

// accessToken reads the bearer token cookie written by the sync bridge. An
// absent cookie is not an error here; the request is forwarded without
// credentials and the backend decides.
func (s *Server) accessToken(c *gin.Context) string {
	token, err := c.Cookie(AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return token
}

// proxy forwards a request to the backend with credentials attached and
// relays the upstream status and JSON body verbatim. Transport failures
// become a 500 JSON response; they never propagate.
func (s *Server) proxy(c *gin.Context, method, path string, body io.Reader) {
	status, payload, err := s.backend.Do(c.Request.Context(), method, path, s.accessToken(c), body)
	if err != nil {
		s.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.Data(status, "application/json", payload)
}

// @Summary List blog posts
// @Tags blogs
// @Produce json
// @Router /api/blogs [get]
func (s *Server) listBlogs(c *gin.Context) {
	s.proxy(c, http.MethodGet, "/api/blogs/", nil)
}

// @Summary Create a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Failure 400 {object} map[string]interface{}
// @Router /api/blogs [post]
func (s *Server) createBlog(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	var input models.BlogCreateInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if err := s.validator.Struct(input); err != nil {
		s.logger.Warn().Err(err).Msg("Blog create payload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed"})
		return
	}

	// Forward the raw body so fields this gateway does not know about
	// survive the hop
	s.proxy(c, http.MethodPost, "/api/blogs", bytes.NewReader(body))
}

// @Summary Get a blog post
// @Tags blogs
// @Produce json
// @Router /api/blogs/{id} [get]
func (s *Server) getBlog(c *gin.Context) {
	s.proxy(c, http.MethodGet, "/api/blogs/"+c.Param("id"), nil)
}

// @Summary Update a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Failure 400 {object} map[string]interface{}
// @Router /api/blogs/{id} [patch]
func (s *Server) updateBlog(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	var input models.BlogUpdateInput
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if err := s.validator.Struct(input); err != nil {
		s.logger.Warn().Err(err).Msg("Blog update payload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed"})
		return
	}

	s.proxy(c, http.MethodPatch, "/api/blogs/"+c.Param("id"), bytes.NewReader(body))
}

// @Summary Delete a blog post
// @Description Deletes upstream. Also registered as a POST alias for UI
// contexts that cannot issue a native DELETE; both produce the identical
// upstream call.
// @Tags blogs
// @Produce json
// @Router /api/blogs/{id} [delete]
func (s *Server) deleteBlog(c *gin.Context) {
	s.proxy(c, http.MethodDelete, "/api/blogs/"+c.Param("id"), nil)
}

// dashboardPage serves the admin dashboard bundle. Requests only reach this
// handler after passing the admin guard.
func (s *Server) dashboardPage(c *gin.Context) {
	if s.config.Server.StaticDir == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	// Clean relative to root so ".." cannot escape the static dir
	page := filepath.Clean("/" + c.Param("page"))
	full := filepath.Join(s.config.Server.StaticDir, page)
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		c.File(full)
		return
	}

	// Client-side routed paths fall back to the bundle entry point
	c.File(filepath.Join(s.config.Server.StaticDir, "index.html"))
}
