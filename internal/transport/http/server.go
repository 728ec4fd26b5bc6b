package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/ai"
	appsvc "knowledgebot/internal/app"
	"knowledgebot/internal/bootstrap"
	"knowledgebot/internal/chunker"
	"knowledgebot/internal/extract"
	"knowledgebot/internal/platform/rabbitmq"
	"knowledgebot/internal/repository"
	"knowledgebot/internal/store"
	"knowledgebot/internal/transport/http/handler"
	"knowledgebot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config
	docStore := store.NewDocumentStore(app.Redis)
	auditPublisher := rabbitmq.NewAuditPublisher(app.MQConn, cfg.RabbitMQ.AuditQueue)

	embeddingConfig := ai.EmbeddingConfig{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.EmbeddingDimensions,
	}
	embedder := appsvc.EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
		return app.LLMClient.Embed(ctx, embeddingConfig, text)
	})

	visionConfig := ai.VisionConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.VisionModel,
	}
	chatConfig := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.ChatModel,
	}

	extractor := extract.NewExtractor(app.LLMClient, visionConfig, cfg.Ingest.PageBatchSize)
	textChunker := chunker.New(
		chunker.WithChunkSize(cfg.Ingest.ChunkSize),
		chunker.WithOverlapPercent(cfg.Ingest.OverlapPercent),
	)

	ingestService := appsvc.NewIngestService(docStore, extractor, auditPublisher)
	vectorizeService := appsvc.NewVectorizeService(docStore, app.VectorIndex, embedder, textChunker, auditPublisher)
	retrievalService := appsvc.NewRetrievalService(docStore, app.VectorIndex, embedder, cfg.Ingest.DefaultTopK)
	documentService := appsvc.NewDocumentService(docStore, app.VectorIndex, auditPublisher)
	chatService := appsvc.NewChatService(retrievalService, app.LLMClient, chatConfig, cfg.Ingest.DefaultTopK)

	authHandler := handler.NewAuthHandler(cfg.Auth.Token)
	ingestHandler := handler.NewIngestHandler(ingestService, cfg.Ingest.MaxUploadMB)
	vectorizeHandler := handler.NewVectorizeHandler(vectorizeService)
	searchHandler := handler.NewSearchHandler(retrievalService)
	documentsHandler := handler.NewDocumentsHandler(documentService)
	chatHandler := handler.NewChatHandler(chatService)
	auditHandler := handler.NewAuditHandler(repository.NewAuditRepository(app.MySQL))

	requireToken := middleware.AuthBearer(cfg.Auth.Token)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/verify", authHandler.Verify)
	v1.POST("/ingest", requireToken, ingestHandler.Ingest)
	v1.POST("/vectorize", requireToken, vectorizeHandler.Vectorize)
	v1.GET("/search", searchHandler.Search)
	v1.POST("/retrieve", searchHandler.Retrieve)
	v1.POST("/chat", chatHandler.Stream)

	docsGroup := v1.Group("/documents")
	docsGroup.GET("", documentsHandler.List)
	docsGroup.PUT("", requireToken, documentsHandler.Set)
	docsGroup.DELETE("", requireToken, documentsHandler.Delete)
	docsGroup.GET("/audit", requireToken, auditHandler.ListByKey)

	return router
}
