package http

import (
	"log/slog"
	"net/http"
	"strings"

	"ordering/internal/adapters/in/http/api"
	"ordering/internal/core/application/gateways"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements api.ServerInterface on top of the role gateways and the
// application's command and query handlers.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	registerDriverHandler   commands.RegisterDriverCommandHandler
	deactivateDriverHandler commands.DeactivateDriverCommandHandler

	// Role gateways
	coordinator gateways.Coordinator
	kitchen     gateways.Kitchen
	driver      gateways.Driver

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	getRoleQueueHandler     queries.GetRoleQueueQueryHandler
	getActiveDriversHandler queries.GetActiveDriversQueryHandler

	logger *slog.Logger
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required handlers and gateways.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	registerDriverHandler commands.RegisterDriverCommandHandler,
	deactivateDriverHandler commands.DeactivateDriverCommandHandler,
	coordinator gateways.Coordinator,
	kitchen gateways.Kitchen,
	driver gateways.Driver,
	getOrderHandler queries.GetOrderQueryHandler,
	getRoleQueueHandler queries.GetRoleQueueQueryHandler,
	getActiveDriversHandler queries.GetActiveDriversQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		registerDriverHandler:   registerDriverHandler,
		deactivateDriverHandler: deactivateDriverHandler,
		coordinator:             coordinator,
		kitchen:                 kitchen,
		driver:                  driver,
		getOrderHandler:         getOrderHandler,
		getRoleQueueHandler:     getRoleQueueHandler,
		getActiveDriversHandler: getActiveDriversHandler,
		logger:                  logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders - places a new order in PENDING.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body api.NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.Id != nil {
		id, err := kernel.UUIDFromBytes((*body.Id)[:])
		if err != nil {
			return s.respondError(ctx, err)
		}
		orderID = id
	}

	total, err := kernel.MoneyFromString(body.Total)
	if err != nil {
		return s.respondError(ctx, err)
	}

	fulfillment := order.Delivery
	if body.Fulfillment != nil {
		fulfillment = order.Fulfillment(*body.Fulfillment)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, total, order.PaymentMethod(body.PaymentMethod), fulfillment)
	if err != nil {
		return s.respondError(ctx, err)
	}

	snapshot, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(snapshot))
}

// GetOrder handles GET /api/v1/orders/:orderId - returns the order with its history.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return s.respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.respondError(ctx, err)
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(snapshot))
}

// GetQueue handles GET /api/v1/queues/:role - the orders a dashboard acts on next.
func (s *Server) GetQueue(ctx echo.Context, role string, params api.GetQueueParams) error {
	parsed, err := order.ParseRole(role)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var actorID string
	if params.XActorID != nil {
		actorID = *params.XActorID
	}

	query, err := queries.NewGetRoleQueueQuery(parsed, actorID)
	if err != nil {
		return s.respondError(ctx, err)
	}

	snapshots, err := s.getRoleQueueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := make([]api.Order, len(snapshots))
	for i, snapshot := range snapshots {
		response[i] = toOrder(snapshot)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDrivers handles GET /api/v1/drivers - lists the active drivers.
func (s *Server) GetDrivers(ctx echo.Context) error {
	drivers, err := s.getActiveDriversHandler.Handle(ctx.Request().Context(), queries.NewGetActiveDriversQuery())
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := make([]api.Driver, len(drivers))
	for i, d := range drivers {
		response[i] = api.Driver{Id: d.ID, Name: d.Name}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RegisterDriver handles POST /api/v1/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var body api.NewDriver
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterDriverCommand(body.Id, body.Name)
	if err != nil {
		return s.respondError(ctx, err)
	}

	if err := s.registerDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// DeactivateDriver handles POST /api/v1/drivers/:driverId/deactivate.
func (s *Server) DeactivateDriver(ctx echo.Context, driverId string) error {
	cmd, err := commands.NewDeactivateDriverCommand(driverId)
	if err != nil {
		return s.respondError(ctx, err)
	}

	if err := s.deactivateDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// transitionInput is the decoded part of a transition request shared by every route.
type transitionInput struct {
	action gateways.Action
	body   api.TransitionRequest
}

func (s *Server) bindTransition(
	ctx echo.Context,
	orderId openapi_types.UUID,
	params api.TransitionParams,
) (transitionInput, error) {
	var body api.TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return transitionInput{}, errBadBody
	}

	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return transitionInput{}, err
	}

	action := gateways.Action{OrderID: id, ActorID: params.XActorID}
	if body.ExpectedStatus != nil && strings.TrimSpace(*body.ExpectedStatus) != "" {
		expected, err := order.ParseStatus(strings.TrimSpace(*body.ExpectedStatus))
		if err != nil {
			return transitionInput{}, err
		}
		action.ExpectedStatus = expected
	}

	return transitionInput{action: action, body: body}, nil
}

type transitionCall func(in transitionInput) (order.Snapshot, error)

func (s *Server) transition(
	ctx echo.Context,
	orderId openapi_types.UUID,
	params api.TransitionParams,
	call transitionCall,
) error {
	in, err := s.bindTransition(ctx, orderId, params)
	if err != nil {
		return s.respondError(ctx, err)
	}

	snapshot, err := call(in)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(snapshot))
}

// Confirm handles POST /api/v1/coordinator/orders/:orderId/confirm.
func (s *Server) Confirm(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.Confirm(ctx.Request().Context(), in.action)
	})
}

// Reject handles POST /api/v1/coordinator/orders/:orderId/reject.
func (s *Server) Reject(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.Reject(ctx.Request().Context(), in.action, deref(in.body.Reason))
	})
}

// SendToKitchen handles POST /api/v1/coordinator/orders/:orderId/send-to-kitchen.
func (s *Server) SendToKitchen(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.SendToKitchen(ctx.Request().Context(), in.action)
	})
}

// AssignDriver handles POST /api/v1/coordinator/orders/:orderId/assign-driver.
func (s *Server) AssignDriver(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.AssignDriver(ctx.Request().Context(), in.action, deref(in.body.DriverId))
	})
}

// ReleaseDriver handles POST /api/v1/coordinator/orders/:orderId/release-driver.
func (s *Server) ReleaseDriver(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.ReleaseDriver(ctx.Request().Context(), in.action, deref(in.body.Reason))
	})
}

// HandOver handles POST /api/v1/coordinator/orders/:orderId/hand-over.
func (s *Server) HandOver(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.HandOver(ctx.Request().Context(), in.action, deref(in.body.Collected))
	})
}

// VerifyCash handles POST /api/v1/coordinator/orders/:orderId/verify-cash.
func (s *Server) VerifyCash(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.coordinator.VerifyCash(ctx.Request().Context(), in.action, deref(in.body.Collected))
	})
}

// MarkReady handles POST /api/v1/kitchen/orders/:orderId/mark-ready.
func (s *Server) MarkReady(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.kitchen.MarkReady(ctx.Request().Context(), in.action)
	})
}

// StartDelivery handles POST /api/v1/driver/orders/:orderId/start-delivery.
func (s *Server) StartDelivery(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.driver.StartDelivery(ctx.Request().Context(), in.action)
	})
}

// CompleteDelivery handles POST /api/v1/driver/orders/:orderId/complete-delivery.
func (s *Server) CompleteDelivery(ctx echo.Context, orderId openapi_types.UUID, params api.TransitionParams) error {
	return s.transition(ctx, orderId, params, func(in transitionInput) (order.Snapshot, error) {
		return s.driver.CompleteDelivery(ctx.Request().Context(), in.action, deref(in.body.Collected))
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
