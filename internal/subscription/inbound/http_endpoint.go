package inbound

import (
	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

// HTTPEndpoint exposes the subscribe and confirm handlers.
type HTTPEndpoint struct {
	uc uc
}

// Subscribe accepts a JSON or url-encoded body with email and name.
func (h *HTTPEndpoint) Subscribe(r *router.Request) (any, error) {
	var req SubscribeRequest
	if r.IsForm() {
		var err error
		if req.Email, err = r.GetForm("email"); err != nil {
			return nil, err
		}
		if req.Name, err = r.GetForm("name"); err != nil {
			return nil, err
		}
	} else if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Subscribe(r.Context(), usecase.SubscribeInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return nil, err
	}

	return SubscribeResponse{
		Email:  resp.Email,
		Status: resp.Status.String(),
	}, nil
}

// Confirm follows the link sent in the confirmation email.
func (h *HTTPEndpoint) Confirm(r *router.Request) (any, error) {
	token := r.GetQuery("subscription_token")
	if token == "" {
		return nil, goerror.NewInvalidFormat("Missing subscription token")
	}

	resp, err := h.uc.Confirm(r.Context(), usecase.ConfirmInput{Token: token})
	if err != nil {
		return nil, err
	}

	return ConfirmResponse{Status: resp.Status.String()}, nil
}
