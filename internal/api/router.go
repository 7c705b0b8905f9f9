package api

import (
	"github.com/gorilla/mux"

	"github.com/keepsakehq/keepsake/server/internal/api/recovery"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/billing"
	"github.com/keepsakehq/keepsake/server/internal/mediastore"
	"github.com/keepsakehq/keepsake/server/internal/services"
	"github.com/keepsakehq/keepsake/server/internal/store"
)

// Deps carries everything the router needs. Billing is optional; the
// billing routes are only mounted when it is configured.
type Deps struct {
	Store      store.Store
	Media      mediastore.MediaStore
	Authorizer auth.Authorizer
	Billing    *billing.Service
}

// NewRouter creates the HTTP router with all API routes. Health and the
// Stripe webhook are public; everything else sits behind the auth middleware,
// which also provisions accounts lazily.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	userSvc := services.NewUserService(d.Store)
	personSvc := services.NewPersonService(d.Store)
	placeSvc := services.NewPlaceService(d.Store)
	eventSvc := services.NewEventService(d.Store)
	memorySvc := services.NewMemoryService(d.Store, d.Media)
	reflectionSvc := services.NewReflectionService(d.Store)
	attributeSvc := services.NewAttributeService(d.Store)
	collectionSvc := services.NewCollectionService(d.Store)

	healthHandler := NewHealthHandler()
	userHandler := NewUserHandler(userSvc)
	personHandler := NewPersonHandler(personSvc)
	placeHandler := NewPlaceHandler(placeSvc)
	eventHandler := NewEventHandler(eventSvc)
	memoryHandler := NewMemoryHandler(memorySvc)
	reflectionHandler := NewReflectionHandler(reflectionSvc)
	attributeHandler := NewAttributeHandler(attributeSvc)
	collectionHandler := NewCollectionHandler(collectionSvc)
	mediaHandler := NewMediaHandler(d.Media)

	// Public endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	if d.Billing != nil {
		billingHandler := NewBillingHandler(d.Billing)
		router.HandleFunc("/api/billing/webhook", billingHandler.HandleWebhook).Methods("POST")
	}

	// Authenticated endpoints
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(d.Authorizer, d.Store.Users()))

	authed.HandleFunc("/auth/sync", userHandler.SyncUser).Methods("POST")
	authed.HandleFunc("/me", userHandler.GetMe).Methods("GET")

	authed.HandleFunc("/persons", personHandler.CreatePerson).Methods("POST")
	authed.HandleFunc("/persons", personHandler.ListPersons).Methods("GET")
	authed.HandleFunc("/persons/search", personHandler.SearchPersons).Methods("GET")
	authed.HandleFunc("/persons/{personId}", personHandler.GetPerson).Methods("GET")
	authed.HandleFunc("/persons/{personId}", personHandler.UpdatePerson).Methods("PATCH")
	authed.HandleFunc("/persons/{personId}", personHandler.DeletePerson).Methods("DELETE")

	authed.HandleFunc("/places", placeHandler.CreatePlace).Methods("POST")
	authed.HandleFunc("/places", placeHandler.ListPlaces).Methods("GET")
	authed.HandleFunc("/places/search", placeHandler.SearchPlaces).Methods("GET")
	authed.HandleFunc("/places/{placeId}", placeHandler.GetPlace).Methods("GET")
	authed.HandleFunc("/places/{placeId}", placeHandler.UpdatePlace).Methods("PATCH")
	authed.HandleFunc("/places/{placeId}", placeHandler.DeletePlace).Methods("DELETE")

	authed.HandleFunc("/events", eventHandler.CreateEvent).Methods("POST")
	authed.HandleFunc("/events", eventHandler.ListEvents).Methods("GET")
	authed.HandleFunc("/events/search", eventHandler.SearchEvents).Methods("GET")
	authed.HandleFunc("/events/{eventId}", eventHandler.GetEvent).Methods("GET")
	authed.HandleFunc("/events/{eventId}", eventHandler.UpdateEvent).Methods("PATCH")
	authed.HandleFunc("/events/{eventId}", eventHandler.DeleteEvent).Methods("DELETE")

	authed.HandleFunc("/memories", memoryHandler.CreateMemory).Methods("POST")
	authed.HandleFunc("/memories", memoryHandler.ListMemories).Methods("GET")
	authed.HandleFunc("/memories/search", memoryHandler.SearchMemories).Methods("GET")
	authed.HandleFunc("/memories/{memoryId}", memoryHandler.GetMemory).Methods("GET")
	authed.HandleFunc("/memories/{memoryId}", memoryHandler.UpdateMemory).Methods("PATCH")
	authed.HandleFunc("/memories/{memoryId}", memoryHandler.DeleteMemory).Methods("DELETE")

	// Association operations
	authed.HandleFunc("/memories/{memoryId}/people", memoryHandler.SetPeople).Methods("PUT")
	authed.HandleFunc("/memories/{memoryId}/event", memoryHandler.SetEvent).Methods("PUT")
	authed.HandleFunc("/memories/{memoryId}/place", memoryHandler.SetPlace).Methods("PUT")

	authed.HandleFunc("/memories/{memoryId}/reflections", reflectionHandler.CreateReflection).Methods("POST")
	authed.HandleFunc("/memories/{memoryId}/reflections", reflectionHandler.ListReflections).Methods("GET")
	authed.HandleFunc("/memories/{memoryId}/reflections/{reflectionId}", reflectionHandler.GetReflection).Methods("GET")
	authed.HandleFunc("/memories/{memoryId}/reflections/{reflectionId}", reflectionHandler.UpdateReflection).Methods("PATCH")
	authed.HandleFunc("/memories/{memoryId}/reflections/{reflectionId}", reflectionHandler.DeleteReflection).Methods("DELETE")

	authed.HandleFunc("/attributes", attributeHandler.CreateAttribute).Methods("POST")
	authed.HandleFunc("/attributes", attributeHandler.ListAttributes).Methods("GET")
	authed.HandleFunc("/attributes/search", attributeHandler.SearchAttributes).Methods("GET")

	authed.HandleFunc("/collections", collectionHandler.CreateCollection).Methods("POST")
	authed.HandleFunc("/collections", collectionHandler.ListCollections).Methods("GET")
	authed.HandleFunc("/collections/{collectionId}", collectionHandler.GetCollection).Methods("GET")
	authed.HandleFunc("/collections/{collectionId}", collectionHandler.UpdateCollection).Methods("PATCH")
	authed.HandleFunc("/collections/{collectionId}", collectionHandler.DeleteCollection).Methods("DELETE")

	authed.HandleFunc("/media", mediaHandler.UploadMedia).Methods("POST")
	authed.HandleFunc("/media/presign", mediaHandler.PresignUpload).Methods("POST")
	authed.HandleFunc("/media/{key}", mediaHandler.GetMedia).Methods("GET")

	if d.Billing != nil {
		billingHandler := NewBillingHandler(d.Billing)
		authed.HandleFunc("/billing/checkout", billingHandler.CreateCheckout).Methods("POST")
	}

	return router
}
