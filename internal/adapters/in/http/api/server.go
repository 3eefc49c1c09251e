package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const actorHeader = "X-Actor-ID"

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error

	// (POST /coordinator/orders/{orderId}/confirm)
	Confirm(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/reject)
	Reject(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/send-to-kitchen)
	SendToKitchen(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/assign-driver)
	AssignDriver(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/release-driver)
	ReleaseDriver(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/hand-over)
	HandOver(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /coordinator/orders/{orderId}/verify-cash)
	VerifyCash(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /kitchen/orders/{orderId}/mark-ready)
	MarkReady(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /driver/orders/{orderId}/start-delivery)
	StartDelivery(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error
	// (POST /driver/orders/{orderId}/complete-delivery)
	CompleteDelivery(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error

	// (GET /queues/{role})
	GetQueue(ctx echo.Context, role string, params GetQueueParams) error

	// (GET /drivers)
	GetDrivers(ctx echo.Context) error
	// (POST /drivers)
	RegisterDriver(ctx echo.Context) error
	// (POST /drivers/{driverId}/deactivate)
	DeactivateDriver(ctx echo.Context, driverId string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

type transitionFunc func(ctx echo.Context, orderId openapi_types.UUID, params TransitionParams) error

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderId, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

func bindActorHeader(ctx echo.Context, required bool) (*string, error) {
	valueList, found := ctx.Request().Header[http.CanonicalHeaderKey(actorHeader)]
	if !found {
		if required {
			return nil, echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Header parameter %s is required, but not found", actorHeader))
		}
		return nil, nil
	}
	if n := len(valueList); n != 1 {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Expected one value for %s, got %d", actorHeader, n))
	}

	var actorID string
	err := runtime.BindStyledParameterWithOptions("simple", actorHeader, valueList[0], &actorID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: required})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Invalid format for parameter %s: %s", actorHeader, err))
	}
	return &actorID, nil
}

func (w *ServerInterfaceWrapper) transition(ctx echo.Context, handle transitionFunc) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	actorID, err := bindActorHeader(ctx, true)
	if err != nil {
		return err
	}
	return handle(ctx, orderId, TransitionParams{XActorID: *actorID})
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) Confirm(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.Confirm)
}

func (w *ServerInterfaceWrapper) Reject(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.Reject)
}

func (w *ServerInterfaceWrapper) SendToKitchen(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.SendToKitchen)
}

func (w *ServerInterfaceWrapper) AssignDriver(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.AssignDriver)
}

func (w *ServerInterfaceWrapper) ReleaseDriver(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.ReleaseDriver)
}

func (w *ServerInterfaceWrapper) HandOver(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.HandOver)
}

func (w *ServerInterfaceWrapper) VerifyCash(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.VerifyCash)
}

func (w *ServerInterfaceWrapper) MarkReady(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.MarkReady)
}

func (w *ServerInterfaceWrapper) StartDelivery(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.StartDelivery)
}

func (w *ServerInterfaceWrapper) CompleteDelivery(ctx echo.Context) error {
	return w.transition(ctx, w.Handler.CompleteDelivery)
}

// GetQueue converts echo context to params.
func (w *ServerInterfaceWrapper) GetQueue(ctx echo.Context) error {
	var role string
	err := runtime.BindStyledParameterWithOptions("simple", "role", ctx.Param("role"), &role,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter role: %s", err))
	}

	actorID, err := bindActorHeader(ctx, false)
	if err != nil {
		return err
	}
	return w.Handler.GetQueue(ctx, role, GetQueueParams{XActorID: actorID})
}

// GetDrivers converts echo context to params.
func (w *ServerInterfaceWrapper) GetDrivers(ctx echo.Context) error {
	return w.Handler.GetDrivers(ctx)
}

// RegisterDriver converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterDriver(ctx echo.Context) error {
	return w.Handler.RegisterDriver(ctx)
}

// DeactivateDriver converts echo context to params.
func (w *ServerInterfaceWrapper) DeactivateDriver(ctx echo.Context) error {
	var driverId string
	err := runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}
	return w.Handler.DeactivateDriver(ctx, driverId)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers under baseURL, e.g. "/api/v1".
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/:orderId", wrapper.GetOrder)

	router.POST(baseURL+"/coordinator/orders/:orderId/confirm", wrapper.Confirm)
	router.POST(baseURL+"/coordinator/orders/:orderId/reject", wrapper.Reject)
	router.POST(baseURL+"/coordinator/orders/:orderId/send-to-kitchen", wrapper.SendToKitchen)
	router.POST(baseURL+"/coordinator/orders/:orderId/assign-driver", wrapper.AssignDriver)
	router.POST(baseURL+"/coordinator/orders/:orderId/release-driver", wrapper.ReleaseDriver)
	router.POST(baseURL+"/coordinator/orders/:orderId/hand-over", wrapper.HandOver)
	router.POST(baseURL+"/coordinator/orders/:orderId/verify-cash", wrapper.VerifyCash)
	router.POST(baseURL+"/kitchen/orders/:orderId/mark-ready", wrapper.MarkReady)
	router.POST(baseURL+"/driver/orders/:orderId/start-delivery", wrapper.StartDelivery)
	router.POST(baseURL+"/driver/orders/:orderId/complete-delivery", wrapper.CompleteDelivery)

	router.GET(baseURL+"/queues/:role", wrapper.GetQueue)

	router.GET(baseURL+"/drivers", wrapper.GetDrivers)
	router.POST(baseURL+"/drivers", wrapper.RegisterDriver)
	router.POST(baseURL+"/drivers/:driverId/deactivate", wrapper.DeactivateDriver)
}
