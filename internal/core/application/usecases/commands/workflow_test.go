package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"ordering/internal/adapters/out/memory"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// memoryUoWFactory adapts the memory factory to the interfaces the handlers consume.
type memoryUoWFactory struct {
	factory *memory.UnitOfWorkFactory
}

func (f memoryUoWFactory) Create() commands.UoW { return f.factory.Create() }

type orderUoWFactory struct{ memoryUoWFactory }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.factory.Create() }

type driverUoWFactory struct{ memoryUoWFactory }

func (f driverUoWFactory) Create() commands.DriverUoW { return f.factory.Create() }

// barrierOrderRepository holds every caller after Get until all of them have read,
// so they all act on the same state.
type barrierOrderRepository struct {
	ports.OrderRepository
	barrier *sync.WaitGroup
}

func (r barrierOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	o, err := r.OrderRepository.Get(ctx, id)
	r.barrier.Done()
	r.barrier.Wait()
	return o, err
}

type barrierUoW struct {
	ports.UnitOfWork
	barrier *sync.WaitGroup
}

func (u barrierUoW) OrderRepository() ports.OrderRepository {
	return barrierOrderRepository{OrderRepository: u.UnitOfWork.OrderRepository(), barrier: u.barrier}
}

type barrierUoWFactory struct {
	factory *memory.UnitOfWorkFactory
	barrier *sync.WaitGroup
}

func (f barrierUoWFactory) Create() commands.UoW {
	return barrierUoW{UnitOfWork: f.factory.Create(), barrier: f.barrier}
}

type WorkflowTestSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	factory    *memory.UnitOfWorkFactory
	createH    commands.CreateOrderCommandHandler
	transition commands.ApplyTransitionCommandHandler
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func (s *WorkflowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.factory = memory.NewUnitOfWorkFactory(s.store)

	notifier := commands.NewTransitionNotifier(slog.New(slog.DiscardHandler))
	base := memoryUoWFactory{factory: s.factory}
	s.createH = commands.NewCreateOrderCommandHandler(orderUoWFactory{base}, notifier)
	s.transition = commands.NewApplyTransitionCommandHandler(base, services.NewTransitionEngine(), notifier)

	register := commands.NewRegisterDriverCommandHandler(driverUoWFactory{base})
	for _, id := range []string{"D1", "D2"} {
		cmd, err := commands.NewRegisterDriverCommand(id, "Driver "+id)
		s.Require().NoError(err)
		s.Require().NoError(register.Handle(s.ctx, cmd))
	}
}

func (s *WorkflowTestSuite) place(payment order.PaymentMethod, fulfillment order.Fulfillment) kernel.UUID {
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(id, kernel.MoneyFromCents(2000), payment, fulfillment)
	s.Require().NoError(err)
	snapshot, err := s.createH.Handle(s.ctx, cmd)
	s.Require().NoError(err)
	s.Require().Equal(order.Pending, snapshot.Status)
	return id
}

func (s *WorkflowTestSuite) do(
	id kernel.UUID,
	event order.Event,
	role order.Role,
	actor string,
	payload commands.TransitionPayload,
) (order.Snapshot, error) {
	cmd, err := commands.NewApplyTransitionCommand(id, event, role, actor, payload)
	s.Require().NoError(err)
	return s.transition.Handle(s.ctx, cmd)
}

func (s *WorkflowTestSuite) mustDo(id kernel.UUID, event order.Event, role order.Role, actor string, payload commands.TransitionPayload) order.Snapshot {
	snapshot, err := s.do(id, event, role, actor, payload)
	s.Require().NoError(err, "%s by %s", event, role)
	return snapshot
}

func (s *WorkflowTestSuite) toReady(id kernel.UUID) {
	s.mustDo(id, order.EventConfirm, order.RoleCoordinator, "C1", commands.TransitionPayload{})
	s.mustDo(id, order.EventSendToKitchen, order.RoleCoordinator, "C1", commands.TransitionPayload{})
	s.mustDo(id, order.EventMarkReady, order.RoleKitchen, "K1", commands.TransitionPayload{})
}

func (s *WorkflowTestSuite) stored(id kernel.UUID) *order.Order {
	o, err := s.store.OrderRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	return o
}

func (s *WorkflowTestSuite) TestCashDeliveryCompletesWithoutDiscrepancy() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)
	s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})
	s.mustDo(id, order.EventCompleteDelivery, order.RoleDriver, "D1", commands.TransitionPayload{Collected: "20.00"})
	final := s.mustDo(id, order.EventVerifyCash, order.RoleCoordinator, "C1", commands.TransitionPayload{})

	s.Equal(order.Completed, final.Status)
	s.Nil(final.CashDiscrepancy)
	s.Nil(final.AssignedDriverID)
	s.Len(final.History, 7)
	s.Equal("D1", final.History[4].Metadata[services.MetaDriverID])
	s.NoError(s.stored(id).CheckInvariants())
}

func (s *WorkflowTestSuite) TestRejectedOrderAcceptsNothing() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	rejected := s.mustDo(id, order.EventReject, order.RoleCoordinator, "C1", commands.TransitionPayload{Reason: "out of stock"})

	s.Equal(order.Rejected, rejected.Status)
	s.Require().NotNil(rejected.RejectionReason)
	s.Equal("out of stock", *rejected.RejectionReason)

	for _, event := range order.AllEvents() {
		for _, role := range order.AllRoles() {
			_, err := s.do(id, event, role, "X1", commands.TransitionPayload{})
			s.ErrorIs(err, order.ErrOrderTerminal, "%s by %s", event, role)
		}
	}
	s.Equal(2, s.stored(id).Version())
}

func (s *WorkflowTestSuite) TestConcurrentConfirmAndRejectHaveOneWinner() {
	id := s.place(order.CashOnDelivery, order.Delivery)

	var barrier sync.WaitGroup
	barrier.Add(2)
	handler := commands.NewApplyTransitionCommandHandler(
		barrierUoWFactory{factory: s.factory, barrier: &barrier},
		services.NewTransitionEngine(),
		commands.NewTransitionNotifier(slog.New(slog.DiscardHandler)),
	)

	confirm, err := commands.NewApplyTransitionCommand(id, order.EventConfirm, order.RoleCoordinator, "C1", commands.TransitionPayload{})
	s.Require().NoError(err)
	reject, err := commands.NewApplyTransitionCommand(id, order.EventReject, order.RoleCoordinator, "C2",
		commands.TransitionPayload{Reason: "duplicate"})
	s.Require().NoError(err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, cmd := range []commands.ApplyTransitionCommand{confirm, reject} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = handler.Handle(s.ctx, cmd)
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, order.ErrStaleStateConflict)
	}
	s.Equal(1, wins)

	stored := s.stored(id)
	s.Contains([]order.Status{order.Confirmed, order.Rejected}, stored.Status())
	s.Equal(2, stored.Version())
}

func (s *WorkflowTestSuite) TestCompleteDeliveryByAnotherDriverIsForbidden() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)
	s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})

	_, err := s.do(id, order.EventCompleteDelivery, order.RoleDriver, "D2", commands.TransitionPayload{Collected: "20.00"})

	s.ErrorIs(err, order.ErrForbiddenTransition)
	s.Equal(order.OutForDelivery, s.stored(id).Status())
}

func (s *WorkflowTestSuite) TestVerifyCashRecordsShortfall() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)
	s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})
	s.mustDo(id, order.EventCompleteDelivery, order.RoleDriver, "D1", commands.TransitionPayload{})

	final := s.mustDo(id, order.EventVerifyCash, order.RoleCoordinator, "C1", commands.TransitionPayload{Collected: "18.50"})

	s.Equal(order.Completed, final.Status)
	s.Require().NotNil(final.CashDiscrepancy)
	s.Equal("-1.50", final.CashDiscrepancy.String())
	s.True(final.HasDiscrepancy())
	last := final.History[len(final.History)-1]
	s.Equal(services.ReconciliationDiscrepancy, last.Metadata[services.MetaReconciliation])
}

func (s *WorkflowTestSuite) TestSecondAssignDriverIsStale() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)
	s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})

	_, err := s.do(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D2"})

	s.ErrorIs(err, order.ErrStaleStateConflict)
	driverID, ok := s.stored(id).AssignedDriver()
	s.True(ok)
	s.Equal("D1", driverID)
}

func (s *WorkflowTestSuite) TestAssignDeactivatedDriverIsInvalid() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)

	deactivate, err := commands.NewDeactivateDriverCommand("D2")
	s.Require().NoError(err)
	handler := commands.NewDeactivateDriverCommandHandler(driverUoWFactory{memoryUoWFactory{factory: s.factory}})
	s.Require().NoError(handler.Handle(s.ctx, deactivate))

	_, err = s.do(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D2"})

	s.ErrorIs(err, order.ErrInvalidTransitionInput)
	s.Equal(order.Ready, s.stored(id).Status())
}

func (s *WorkflowTestSuite) TestReleaseDriverReturnsOrderToReady() {
	id := s.place(order.CashOnDelivery, order.Delivery)
	s.toReady(id)
	s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})

	released := s.mustDo(id, order.EventReleaseDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{Reason: "flat tyre"})
	s.Equal(order.Ready, released.Status)
	s.Nil(released.AssignedDriverID)

	reassigned := s.mustDo(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D2"})
	s.Require().NotNil(reassigned.AssignedDriverID)
	s.Equal("D2", *reassigned.AssignedDriverID)
}

func (s *WorkflowTestSuite) TestPrepaidPickupSkipsReconciliation() {
	id := s.place(order.Prepaid, order.Pickup)
	s.toReady(id)

	_, err := s.do(id, order.EventAssignDriver, order.RoleCoordinator, "C1", commands.TransitionPayload{DriverID: "D1"})
	s.ErrorIs(err, order.ErrForbiddenTransition)

	s.mustDo(id, order.EventHandOver, order.RoleCoordinator, "C1", commands.TransitionPayload{})
	final := s.mustDo(id, order.EventVerifyCash, order.RoleCoordinator, "C1", commands.TransitionPayload{})

	s.Equal(order.Completed, final.Status)
	s.Nil(final.AssignedDriverID)
	s.Nil(final.CashCollected)
	last := final.History[len(final.History)-1]
	s.Equal(services.ReconciliationPrepaid, last.Metadata[services.MetaReconciliation])
}

func TestWorkflow_ConcurrentOrdersDoNotInterfere(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	base := memoryUoWFactory{factory: factory}
	notifier := commands.NewTransitionNotifier(slog.New(slog.DiscardHandler))
	create := commands.NewCreateOrderCommandHandler(orderUoWFactory{base}, notifier)
	transition := commands.NewApplyTransitionCommandHandler(base, services.NewTransitionEngine(), notifier)

	const orders = 16
	ids := make([]kernel.UUID, orders)
	for i := range ids {
		ids[i] = kernel.NewUUID()
		cmd, err := commands.NewCreateOrderCommand(ids[i], kernel.MoneyFromCents(1000), order.Prepaid, order.Pickup)
		require.NoError(t, err)
		_, err = create.Handle(ctx, cmd)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]error, orders)
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewApplyTransitionCommand(id, order.EventConfirm, order.RoleCoordinator, "C1", commands.TransitionPayload{})
			if err != nil {
				results[i] = err
				return
			}
			_, results[i] = transition.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	confirmed, err := factory.Create().OrderRepository().ListByStatus(ctx, order.Confirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, orders)
}
