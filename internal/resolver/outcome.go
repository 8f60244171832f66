package resolver

import "net/http"

// Outcome is the result of classifying a request. The set of variants is
// closed: OK, MovedPermanently, NotFound and MethodNotAllowed.
type Outcome interface {
	// Status returns the HTTP status code the outcome renders to.
	Status() int
	outcome()
}

// OK serves the file at Path.
type OK struct {
	Path string
}

// MovedPermanently redirects the client to Location.
type MovedPermanently struct {
	Location string
}

// NotFound covers both missing resources and traversal attempts.
type NotFound struct{}

// MethodNotAllowed is returned for every method other than GET.
type MethodNotAllowed struct {
	Path string
}

func (OK) Status() int               { return http.StatusOK }
func (MovedPermanently) Status() int { return http.StatusMovedPermanently }
func (NotFound) Status() int         { return http.StatusNotFound }
func (MethodNotAllowed) Status() int { return http.StatusMethodNotAllowed }

func (OK) outcome()               {}
func (MovedPermanently) outcome() {}
func (NotFound) outcome()         {}
func (MethodNotAllowed) outcome() {}
