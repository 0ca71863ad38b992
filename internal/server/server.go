package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/kineticlabs/kinetic/internal/config"
	"github.com/kineticlabs/kinetic/internal/core"
	"github.com/kineticlabs/kinetic/internal/llm"
	"github.com/kineticlabs/kinetic/internal/store"
)

type Server struct {
	Engine      *core.Engine
	Store       *store.Store
	Logger      *log.Logger
	FrontendURL string
}

func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	// Env overrides on top of the TOML config.
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = "gpt-4o"
	}

	var kv store.KV
	if cfg.Store.Path == "" {
		logger.Warn("no store path configured, graph will not survive restarts")
		kv = store.NewMemoryKV()
	} else {
		sqliteKV, err := store.NewSQLiteKV(cfg.Store.Path)
		if err != nil {
			logger.Fatal("failed to open store", "path", cfg.Store.Path, "error", err)
		}
		kv = sqliteKV
	}
	st := store.New(kv)

	// A key saved through the settings endpoint outlives config and env.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = st.APIKey()
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize LLM client", "error", err)
	}

	frontendURL := cfg.Server.FrontendURL
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	return &Server{
		Engine:      core.NewEngine(st, llmClient, cfg.Prompts),
		Store:       st,
		Logger:      logger,
		FrontendURL: frontendURL,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(s.cors)

	r.GET("/api/health", s.Health)
	r.POST("/api/extract", s.Extract)
	r.POST("/api/simulate", s.Simulate)
	r.GET("/api/graph", s.Graph)
	r.GET("/api/ledger", s.Ledger)
	r.GET("/api/conflicts", s.Conflicts)
	r.POST("/api/settings/key", s.SaveAPIKey)

	return r
}

// cors allows the configured browser front-end origin.
func (s *Server) cors(c *gin.Context) {
	if s.FrontendURL != "" {
		c.Header("Access-Control-Allow-Origin", s.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

type ExtractRequest struct {
	Text string `json:"text"`
}

func (s *Server) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	result, err := s.Engine.ProcessText(c.Request.Context(), req.Text)
	if err != nil {
		s.Logger.Error("extraction failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type SimulateRequest struct {
	Hypothetical string `json:"hypothetical"`
}

func (s *Server) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Hypothetical == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hypothetical decision is required"})
		return
	}

	result, err := s.Engine.Simulate(c.Request.Context(), req.Hypothetical)
	if err != nil {
		s.Logger.Error("simulation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) Graph(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nodes": s.Store.Nodes(),
		"edges": s.Store.Edges(),
	})
}

func (s *Server) Ledger(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.Store.TruthLedger()})
}

func (s *Server) Conflicts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conflicts": s.Store.Conflicts()})
}

type SaveKeyRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) SaveAPIKey(c *gin.Context) {
	var req SaveKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
		return
	}

	if err := s.Store.SaveAPIKey(req.APIKey); err != nil {
		s.Logger.Error("failed to save api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save key"})
		return
	}

	// Takes effect on next startup; the running client keeps its key.
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
