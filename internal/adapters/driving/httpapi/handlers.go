package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// queryBody is the JSON body of POST /api/query.
type queryBody struct {
	Query    string        `json:"query"`
	FileID   string        `json:"file_id"`
	Filename string        `json:"filename"`
	UseRAG   bool          `json:"use_rag"`
	Type     string        `json:"type"`
	History  []domain.Turn `json:"history"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "ragbot",
		"version": s.cfg.Version,
		"health":  "/api/health",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, errorBody{Error: "multipart field \"file\" is required"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "cannot read uploaded file"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "cannot read uploaded file"})
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "unknown.pdf"
	}

	result, err := s.ports.Ingest.Ingest(c.Request.Context(), filename, content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		logger.Error("Upload of %s failed: %v", filename, err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleQuery(c *gin.Context) {
	var body queryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	queryType, err := domain.ParseQueryType(body.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := s.ports.Query.HandleQuery(c.Request.Context(), domain.QueryRequest{
		Query:    body.Query,
		FileID:   body.FileID,
		Filename: body.Filename,
		UseRAG:   body.UseRAG,
		Type:     queryType,
		History:  body.History,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		logger.Error("Query failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "query failed"})
		return
	}

	if resp.Sources == nil {
		resp.Sources = []domain.Source{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDocuments(c *gin.Context) {
	if s.ports.Documents == nil {
		c.JSON(http.StatusOK, []domain.Document{})
		return
	}

	docs, err := s.ports.Documents.List(c.Request.Context())
	if err != nil {
		logger.Error("Listing documents failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "listing documents failed"})
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	c.JSON(http.StatusOK, docs)
}
