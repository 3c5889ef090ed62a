package controller_test

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// newRouterWithID mounts a handler behind chi so {id} URL params resolve.
func newRouterWithID(pattern string, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Get(pattern, h)
	return r
}

func newRouterWithMethod(method, pattern string, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	return r
}
