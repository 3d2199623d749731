package handler

import (
	"net/http"

	"pdf-toolkit/internal/config"
	"pdf-toolkit/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	logger := container.Logger
	catalog := container.Catalog

	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-toolkit"}`))
	}).Methods("GET")

	// Initialize handlers
	catalogHandler := NewCatalogHandler(catalog, logger)
	mergeHandler := NewMergeHandler(container.MergeService, container.ResultService, logger)
	toolHandler := NewToolHandler(container.ToolService, container.ResultService, logger)
	downloadHandler := NewDownloadHandler(container.ResultService, logger)
	suggestionHandler := NewSuggestionHandler(container.SuggestionService, logger)
	adminHandler := NewAdminHandler(container.SuggestionService, logger)

	tool := func(id string, h http.HandlerFunc) http.HandlerFunc {
		return RequireTool(catalog, id, h)
	}

	// Catalog routes
	api.HandleFunc("/tools", catalogHandler.ListTools).Methods("GET")
	api.HandleFunc("/tools/{id}", catalogHandler.GetTool).Methods("GET")
	api.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET")

	// Merge routes
	api.HandleFunc("/merge", tool(domain.ToolMerge, mergeHandler.Merge)).Methods("POST")
	api.HandleFunc("/merge/sessions", tool(domain.ToolMerge, mergeHandler.CreateSession)).Methods("POST")
	api.HandleFunc("/merge/sessions/{id}", tool(domain.ToolMerge, mergeHandler.GetSession)).Methods("GET")
	api.HandleFunc("/merge/sessions/{id}", tool(domain.ToolMerge, mergeHandler.DeleteSession)).Methods("DELETE")
	api.HandleFunc("/merge/sessions/{id}/files", tool(domain.ToolMerge, mergeHandler.AddFiles)).Methods("POST")
	api.HandleFunc("/merge/sessions/{id}/files/{index}", tool(domain.ToolMerge, mergeHandler.RemoveFile)).Methods("DELETE")
	api.HandleFunc("/merge/sessions/{id}/files/{index}/move", tool(domain.ToolMerge, mergeHandler.MoveFile)).Methods("POST")
	api.HandleFunc("/merge/sessions/{id}/files/{index}/insert-at", tool(domain.ToolMerge, mergeHandler.SetInsertAt)).Methods("PUT")
	api.HandleFunc("/merge/sessions/{id}/merge", tool(domain.ToolMerge, mergeHandler.MergeSession)).Methods("POST")

	// Single document tools
	api.HandleFunc("/info", toolHandler.Info).Methods("POST")
	api.HandleFunc("/split", tool(domain.ToolSplit, toolHandler.Split)).Methods("POST")
	api.HandleFunc("/compress", tool(domain.ToolCompress, toolHandler.Compress)).Methods("POST")
	api.HandleFunc("/watermark", tool(domain.ToolWatermark, toolHandler.Watermark)).Methods("POST")
	api.HandleFunc("/protect", tool(domain.ToolProtect, toolHandler.Protect)).Methods("POST")
	api.HandleFunc("/convert", tool(domain.ToolConvert, toolHandler.Convert)).Methods("POST")
	api.HandleFunc("/convert/html", tool(domain.ToolConvert, toolHandler.ConvertHTML)).Methods("POST")

	api.HandleFunc("/downloads/{id}", downloadHandler.Download).Methods("GET")
	api.HandleFunc("/suggestions", suggestionHandler.Submit).Methods("POST")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AdminMiddleware(container.Config.GetAdminSecret()))
	admin.HandleFunc("/suggestions", adminHandler.ListSuggestions).Methods("GET")

	var h http.Handler = router
	h = BodyLimitMiddleware(container.Config.GetMaxFileSize())(h)
	h = IdentityMiddleware(h)
	h = LoggingMiddleware(logger)(h)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: container.Config.GetAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			UserNameHeader,
			"X-Admin-Secret",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			UserNameHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(h)
}
