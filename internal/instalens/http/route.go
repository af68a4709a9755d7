package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
	"github.com/instalens/instalens/pkg/util"
)

func (s *Service) initRouter() {
	s.router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	api := s.router.Group("/api/v1")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/session/:id", s.handleSession)
		api.DELETE("/session/:id", s.handleDeleteSession)
		api.GET("/friends", s.handleFriends)
		api.GET("/friends/search", s.handleFriendsSearch)
		api.GET("/analysis/:id", s.handleAnalysis)
		api.GET("/network", s.handleNetwork)
		api.GET("/search", s.handleSearch)
	}

	s.initMCPRouter()
}

// POST /api/v1/upload
//
// Accepts a full export archive (.zip) or a single chat JSON document as a
// multipart "file" field, with the account holder's display name in "owner".
func (s *Service) handleUpload(c *gin.Context) {
	owner := strings.TrimSpace(c.PostForm("owner"))
	if owner == "" {
		errors.Err(c, errors.InvalidArg("owner"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		errors.Err(c, errors.InvalidArg("file"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".zip" && ext != ".json" {
		errors.Err(c, errors.InvalidArg("file"))
		return
	}

	tmp := filepath.Join(os.TempDir(), "instalens-upload-"+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, tmp); err != nil {
		errors.Err(c, err)
		return
	}
	defer os.Remove(tmp)

	var sess *model.Session
	if ext == ".zip" {
		sess, err = s.app.IngestZip(tmp, owner)
	} else {
		sess, err = s.app.IngestConversationFile(tmp, owner)
	}
	if err != nil {
		errors.Err(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":    sess.ID,
		"owner":         sess.Owner,
		"relationships": sess.Relationships,
	})
}

// GET /api/v1/session/:id
func (s *Service) handleSession(c *gin.Context) {
	sess, err := s.app.Session(c.Param("id"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// DELETE /api/v1/session/:id
func (s *Service) handleDeleteSession(c *gin.Context) {
	if err := s.app.DeleteSession(c.Param("id")); err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GET /api/v1/friends?session=<id>
func (s *Service) handleFriends(c *gin.Context) {
	rels, err := s.app.Relationships(c.Query("session"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rels})
}

// GET /api/v1/friends/search?session=<id>&q=<name>
func (s *Service) handleFriendsSearch(c *gin.Context) {
	rels, err := s.app.FindRelationships(c.Query("session"), c.Query("q"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rels})
}

// GET /api/v1/analysis/:id?session=<id>
func (s *Service) handleAnalysis(c *gin.Context) {
	result, err := s.app.Analyze(c.Query("session"), c.Param("id"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/network?session=<id>
func (s *Service) handleNetwork(c *gin.Context) {
	summary, skipped, err := s.app.Network(c.Query("session"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	resp := gin.H{"summary": summary}
	if len(skipped) > 0 {
		resp["skipped"] = skipped
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/search?session=<id>&q=<query>
func (s *Service) handleSearch(c *gin.Context) {
	params := struct {
		Session      string `form:"session"`
		Query        string `form:"q"`
		Relationship string `form:"relationship"`
		Sender       string `form:"sender"`
		Time         string `form:"time"`
		Start        string `form:"start"`
		End          string `form:"end"`
		Limit        int    `form:"limit"`
		Offset       int    `form:"offset"`
	}{}
	if err := c.BindQuery(&params); err != nil {
		errors.Err(c, err)
		return
	}

	req := &model.SearchRequest{
		SessionID:    strings.TrimSpace(params.Session),
		Query:        strings.TrimSpace(params.Query),
		Relationship: strings.TrimSpace(params.Relationship),
		Sender:       strings.TrimSpace(params.Sender),
		Limit:        params.Limit,
		Offset:       params.Offset,
	}

	rangeExpr := params.Time
	if rangeExpr == "" && params.Start != "" && params.End != "" {
		rangeExpr = params.Start + "~" + params.End
	} else if rangeExpr == "" && params.Start != "" {
		rangeExpr = params.Start
	} else if rangeExpr == "" && params.End != "" {
		rangeExpr = params.End
	}
	if rangeExpr != "" {
		start, end, ok := util.TimeRangeOf(rangeExpr)
		if !ok {
			errors.Err(c, errors.InvalidArg("time"))
			return
		}
		req.Start = start
		req.End = end
	}

	resp, err := s.app.Search(req)
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
