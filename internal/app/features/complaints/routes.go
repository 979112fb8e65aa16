// internal/app/features/complaints/routes.go
package complaints

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /complaints.
//
//	GET    /      list
//	POST   /      create
//	GET    /{id}  getById
//	DELETE /{id}  deleteById
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeComplaint)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
