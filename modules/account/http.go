package account

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cardvault/binder"
	"github.com/dmitrymomot/cardvault/handler"
	"github.com/dmitrymomot/cardvault/pkg/session"
)

type userPath struct {
	ID int64 `path:"id"`
}

type cardPath struct {
	ID     int64 `path:"id"`
	CardID int64 `path:"card_id"`
}

type addCardRequest struct {
	CardInput
	ID int64 `json:"-" path:"id"`
}

// HTTPHandler exposes Service over JSON. Routes must run behind the session
// Binding middleware.
type HTTPHandler struct {
	svc *Service
	eh  handler.ErrorHandler
}

// NewHTTPHandler creates the handler set. A nil eh uses handler.NewErrorHandler(nil).
func NewHTTPHandler(svc *Service, eh handler.ErrorHandler) *HTTPHandler {
	if eh == nil {
		eh = handler.NewErrorHandler(nil)
	}
	return &HTTPHandler{svc: svc, eh: eh}
}

// Routes registers every account endpoint on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	jsonBody := binder.BindJSON()
	path := binder.Path(chi.URLParam)

	r.Get("/check", wrap(h, h.check))
	r.Post("/users", wrap(h, h.register, jsonBody))
	r.Post("/login", wrap(h, h.login, jsonBody))
	r.Post("/logout", wrap(h, h.logout))

	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(handler.ErrorHandlerFunc(h.eh, handler.ErrUnauthorized)))

		r.Get("/users/{id}", wrap(h, h.getUser, path))
		r.Delete("/users/{id}", wrap(h, h.deleteUser, path))
		r.Get("/users/{id}/cards", wrap(h, h.listCards, path))
		r.Post("/users/{id}/cards", wrap(h, h.addCard, jsonBody, path))
		r.Get("/users/{id}/cards/{card_id}", wrap(h, h.getCard, path))
	})
}

func wrap[R any](h *HTTPHandler, fn func(handler.Context, R) handler.Response, binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(handler.HandlerFunc[R](fn),
		handler.WithBinders[R](binders...),
		handler.WithErrorHandler[R](h.eh),
	)
}

func (h *HTTPHandler) check(ctx handler.Context, _ struct{}) handler.Response {
	id, ok := session.UserID(ctx)
	if !ok {
		return fail(ErrNotLoggedIn)
	}
	user, err := h.svc.Profile(ctx, id)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"user": user})
}

func (h *HTTPHandler) register(ctx handler.Context, req RegisterInput) handler.Response {
	if session.IsAuthenticated(ctx) {
		if err := session.Logout(ctx); err != nil {
			return fail(err)
		}
	}

	user, err := h.svc.Register(ctx, req)
	if err != nil {
		return fail(err)
	}
	if err := session.Login(ctx, user.ID); err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"user": user}, handler.WithJSONStatus(http.StatusCreated))
}

func (h *HTTPHandler) login(ctx handler.Context, req LoginInput) handler.Response {
	var current *int64
	if id, ok := session.UserID(ctx); ok {
		current = &id
	}

	user, err := h.svc.Login(ctx, req, current)
	if err != nil {
		return fail(err)
	}
	if current == nil || *current != user.ID {
		if err := session.Login(ctx, user.ID); err != nil {
			return fail(err)
		}
	}
	return handler.JSON(handler.Fields{"user": user})
}

func (h *HTTPHandler) logout(ctx handler.Context, _ struct{}) handler.Response {
	if err := session.Logout(ctx); err != nil {
		return fail(err)
	}
	return handler.JSON(nil)
}

func (h *HTTPHandler) getUser(ctx handler.Context, req userPath) handler.Response {
	profile, err := h.svc.PublicProfile(ctx, req.ID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"user": profile})
}

func (h *HTTPHandler) deleteUser(ctx handler.Context, req userPath) handler.Response {
	if err := h.svc.DeleteUser(ctx, actor(ctx), req.ID); err != nil {
		return fail(err)
	}
	if _, err := session.LogoutAll(ctx); err != nil {
		return fail(err)
	}
	return handler.JSON(nil)
}

func (h *HTTPHandler) listCards(ctx handler.Context, req userPath) handler.Response {
	cards, err := h.svc.ListCards(ctx, actor(ctx), req.ID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"cards": cards})
}

func (h *HTTPHandler) addCard(ctx handler.Context, req addCardRequest) handler.Response {
	card, err := h.svc.AddCard(ctx, actor(ctx), req.ID, req.CardInput)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"card": card}, handler.WithJSONStatus(http.StatusCreated))
}

func (h *HTTPHandler) getCard(ctx handler.Context, req cardPath) handler.Response {
	card, err := h.svc.GetCard(ctx, actor(ctx), req.ID, req.CardID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(handler.Fields{"card": card})
}

// actor is the authenticated user; RequireAuth guarantees one is bound.
func actor(ctx handler.Context) int64 {
	id, _ := session.UserID(ctx)
	return id
}

var statusByError = []struct {
	err  error
	code int
}{
	{ErrNotLoggedIn, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrCardNotFound, http.StatusNotFound},
	{ErrEmailTaken, http.StatusConflict},
}

// fail attaches an HTTP status to domain errors. Others pass through unchanged.
func fail(err error) handler.Response {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return handler.Error(fmt.Errorf("%w: %w", handler.NewHTTPError(m.code, m.err.Error()), err))
		}
	}
	return handler.Error(err)
}
