package cmd

import (
	"context"
	"log/slog"

	httpadapter "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/events"
	"ordering/internal/adapters/out/memory"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/driverrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/core/application/gateways"
	"ordering/internal/core/application/readmodel"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
	"ordering/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UnitOfWorkFactory is implemented by every storage backend.
type UnitOfWorkFactory interface {
	Create() ports.UnitOfWork
}

// OrderSource serves order reads outside a transaction.
type OrderSource interface {
	queries.OrderReader
	readmodel.SnapshotSource
}

// Storage bundles a backend's transactional and read-only entry points.
type Storage struct {
	UoWFactory UnitOfWorkFactory
	Orders     OrderSource
	Drivers    queries.DriverReader
}

func NewPostgresStorage(db *gorm.DB) Storage {
	return Storage{
		UoWFactory: postgres.NewGormUnitOfWorkFactory(db),
		Orders:     orderrepo.NewGormOrderRepository(db),
		Drivers:    driverrepo.NewGormDriverRepository(db),
	}
}

func NewMemoryStorage() Storage {
	store := memory.NewStore()
	return Storage{
		UoWFactory: memory.NewUnitOfWorkFactory(store),
		Orders:     store.OrderRepository(),
		Drivers:    store.DriverRepository(),
	}
}

type CompositionRoot struct {
	config    Config
	storage   Storage
	logger    *slog.Logger
	queues    *readmodel.Queues
	notifier  *commands.TransitionNotifier
	publisher *events.KafkaPublisher
}

func NewCompositionRoot(config Config, storage Storage, logger *slog.Logger) *CompositionRoot {
	queues := readmodel.NewQueues(logger)
	listeners := []ports.TransitionListener{queues, events.NewLogPublisher(logger)}

	var publisher *events.KafkaPublisher
	if config.KafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(config.KafkaBrokers, config.KafkaOrderStatusTopic)
		listeners = append(listeners, publisher)
	}

	return &CompositionRoot{
		config:    config,
		storage:   storage,
		logger:    logger,
		queues:    queues,
		notifier:  commands.NewTransitionNotifier(logger, listeners...),
		publisher: publisher,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.storage.UoWFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() *commands.ApplyTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.storage.UoWFactory.Create()
	})
	handler := commands.NewApplyTransitionCommandHandler(f, services.NewTransitionEngine(), c.notifier)
	return &handler
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.storage.UoWFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateDeactivateDriverCommandHandler() commands.DeactivateDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.storage.UoWFactory.Create()
	})
	return commands.NewDeactivateDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.storage.Orders)
}

func (c *CompositionRoot) CreateGetRoleQueueQueryHandler() queries.GetRoleQueueQueryHandler {
	return queries.NewGetRoleQueueQueryHandler(c.queues)
}

func (c *CompositionRoot) CreateGetActiveDriversQueryHandler() queries.GetActiveDriversQueryHandler {
	return queries.NewGetActiveDriversQueryHandler(c.storage.Drivers)
}

// CreateHTTPServer wires the role gateways to one shared transition handler.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	transition := c.CreateApplyTransitionCommandHandler()
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateRegisterDriverCommandHandler(),
		c.CreateDeactivateDriverCommandHandler(),
		gateways.NewCoordinator(transition),
		gateways.NewKitchen(transition),
		gateways.NewDriver(transition),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetRoleQueueQueryHandler(),
		c.CreateGetActiveDriversQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return httpadapter.NewRouter(c.CreateHTTPServer(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.queues, c.storage.Orders, c.config.ReadModelRefreshSchedule, c.logger)
}

// RebuildReadModel loads the role queues from storage before the server accepts requests.
func (c *CompositionRoot) RebuildReadModel(ctx context.Context) error {
	return c.queues.Rebuild(ctx, c.storage.Orders)
}

// Close flushes and closes the event publisher, if any.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
