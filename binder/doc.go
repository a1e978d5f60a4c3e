// Package binder populates request structs from the HTTP request.
//
// BindJSON decodes the body; Path copies router path parameters into fields
// tagged `path:"name"`. Both return errors wrapping the sentinels in errors.go
// so the error handler can pick a status code.
//
//	r.Get("/users/{id}", handler.Wrap(getUser,
//		handler.WithBinders(binder.Path(chi.URLParam)),
//	))
package binder
