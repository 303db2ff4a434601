package inbound

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

type uc interface {
	Subscribe(ctx context.Context, in usecase.SubscribeInput) (*usecase.SubscribeOutput, error)
	Confirm(ctx context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/subscriptions", end.Subscribe)
	r.GET("/subscriptions/confirm", end.Confirm)
}
