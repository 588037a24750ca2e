package api

import (
	"github.com/gorilla/mux"
)

// NewRouter builds the gateway API router over the given handlers
func NewRouter(handlers *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/blog", handlers.ListPosts).Methods("GET")
	router.HandleFunc("/api/blog/{slug}", handlers.GetPost).Methods("GET")
	router.HandleFunc("/api/contract/contentPrice", handlers.ContentPrice).Methods("GET")
	router.HandleFunc("/api/contract/hasAccess", handlers.HasAccess).Methods("GET")
	router.HandleFunc("/api/access/status", handlers.AccessStatus).Methods("GET")
	router.HandleFunc("/api/access/unlock", handlers.RequestUnlock).Methods("POST")
	router.HandleFunc("/api/receipts", handlers.Receipts).Methods("GET")
	return router
}
