package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	get  = http.MethodGet
	post = http.MethodPost
	put  = http.MethodPut
	del  = http.MethodDelete
)

// RegisterRoutes mounts the blog endpoints on r. Every route accepts every
// method so that the Guard, not the router, answers 405. Unmatched paths
// and methods on the rest of r get the same JSON error body.
func RegisterRoutes(r chi.Router, g *Guard, a *AuthHandler, articles *ArticleHandler, comments *CommentHandler) {
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.HandleFunc("/signup", g.Open(a.Signup, post))
	r.HandleFunc("/signin", g.Open(a.Signin, post))
	r.HandleFunc("/signout", g.Protect(a.Signout, get))
	r.HandleFunc("/token", g.Open(a.Token, get))

	r.HandleFunc("/article", g.Protect(articles.Collection, get, post))
	r.HandleFunc("/article/{id:[0-9]+}", g.Protect(articles.Item, get, put, del))
	r.HandleFunc("/article/{id:[0-9]+}/comment", g.Protect(articles.CommentCollection, get, post))
	r.HandleFunc("/comment/{id:[0-9]+}", g.Protect(comments.Item, get, put, del))
}
