package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/api/middleware"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/api/recovery"
	respond "github.com/Clinton-Cochrane/mobile-grocery/internal/api/respond"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/auth"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/services"
)

// RouterDeps are the collaborators the HTTP surface needs.
type RouterDeps struct {
	Recipes    *services.RecipeService
	Authorizer auth.Authorizer
	Health     Reporter
	Ready      func() bool
	Log        zerolog.Logger
}

// NewRouter registers every route behind request logging and panic recovery.
func NewRouter(d RouterDeps) *mux.Router {
	if d.Authorizer == nil {
		d.Authorizer = auth.Disabled{}
	}
	root := mux.NewRouter()
	root.Use(middleware.RequestLog(d.Log))
	root.Use(recovery.Middleware)

	recipes := NewRecipeHandler(d.Recipes, d.Authorizer)
	root.HandleFunc("/recipes", recipes.ListRecipes).Methods(http.MethodGet)
	root.HandleFunc("/recipes", recipes.CreateRecipe).Methods(http.MethodPost)
	root.HandleFunc("/recipes/{id}", recipes.GetRecipe).Methods(http.MethodGet)
	root.HandleFunc("/recipes/{id}", recipes.UpdateRecipe).Methods(http.MethodPut)
	root.HandleFunc("/recipes/{id}", recipes.DeleteRecipe).Methods(http.MethodDelete)
	root.HandleFunc("/shopping-list", recipes.ShoppingList).Methods(http.MethodPost)

	healthHandler := NewHealthHandler(d.Health, d.Ready)
	root.HandleFunc("/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "no route for "+r.Method+" "+r.URL.Path)
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	return root
}
