package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/twmb/franz-go/pkg/sr"

	"github.com/printmade/storefront/config"
	"github.com/printmade/storefront/internal/adapter/httphandler"
	"github.com/printmade/storefront/internal/adapter/kafka"
	"github.com/printmade/storefront/internal/adapter/storage"
	"github.com/printmade/storefront/internal/core/service"
	"github.com/printmade/storefront/pkg/schema"
)

type serdes struct {
	cartEvent  schema.Serde
	stockLevel schema.Serde
}

type App struct {
	ctx context.Context
	cfg config.Config

	serdes serdes

	db        storage.SQLDB
	products  storage.ProductsRepository
	variants  storage.VariantsRepository
	cartLines storage.CartLinesRepository

	cartEvents    kafka.CartEventsProducer
	stockConsumer kafka.StockConsumer

	catalog  service.Catalog
	composer *service.Composer
	guard    service.StockGuard

	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSerdes()
	app.initStorage()
	app.initOutboundAdapters()
	app.initCoreServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	cartEventSS := app.cfg.Broker.Topics.CartEvents + "-value"
	cartEventSerde, err := schema.NewSerdeCartEventV1(
		ctx,
		schema.SubjectOpt(cartEventSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	stockLevelSS := app.cfg.Broker.Topics.StockLevels + "-value"
	stockLevelSerde, err := schema.NewSerdeStockLevelV1(
		ctx,
		schema.SubjectOpt(stockLevelSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.cartEvent = cartEventSerde
	app.serdes.stockLevel = stockLevelSerde
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	app.db = db
	app.products = storage.NewProductsRepository(db)
	app.variants = storage.NewVariantsRepository(db)
	app.cartLines = storage.NewCartLinesRepository(db)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers

	cartEvents, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, app.cfg.Broker.Topics.CartEvents),
		kafka.ProducerEncoderOpt(app.serdes.cartEvent),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.cartEvents = cartEvents

	consumerCl, err := kafka.NewConsumerClient(
		ctx, seedBrokers,
		app.cfg.Broker.Topics.StockLevels,
		app.cfg.Broker.Consumers.StockSaverGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.stockConsumer = kafka.NewStockConsumer(
		kafka.StockConsumerClientOpt(consumerCl),
		kafka.StockConsumerApplierOpt(app.variants),
		kafka.StockConsumerDecoderOpt(app.serdes.stockLevel),
	)
}

func (app *App) initCoreServices() {
	app.catalog = service.NewCatalog(app.variants)
	app.composer = service.NewComposer(app.cartLines, app.cartEvents)
	app.guard = service.NewStockGuard()
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterVariants(mux, app.products, app.catalog)
	httphandler.RegisterCart(mux, app.composer, app.products, app.catalog, app.guard)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.stockConsumer.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.stockConsumer.Close()
	app.cartEvents.Close()
	app.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
