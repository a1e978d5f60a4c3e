// Package handler adapts typed request handlers to net/http and renders the
// JSON envelope shared by every endpoint.
//
// Successful responses look like {"status": true, ...fields}; failures look
// like {"status": false, "msg": "..."} with a meaningful HTTP status code.
//
//	h := handler.Wrap(func(ctx handler.Context, req LoginRequest) handler.Response {
//		user, err := svc.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(handler.Fields{"user": user})
//	}, handler.WithBinders[LoginRequest](binder.BindJSON()))
//
// Errors returned through Error, or raised by binders, are passed to the
// configured ErrorHandler. NewErrorHandler classifies them: HTTPError keeps its
// code and message, validation failures become 422 with the first message,
// binder failures become 400 or 415, and anything else is logged and rendered
// as a 500 with the generic message "error".
package handler
