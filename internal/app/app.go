package app

import (
	"context"
	"net/http"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/fantasy-league-contracts/internal/chain"
	"github.com/riskibarqy/fantasy-league-contracts/internal/config"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/application"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/league"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/manager"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/player"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/policy"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/task"
	"github.com/riskibarqy/fantasy-league-contracts/internal/contract/team"
	"github.com/riskibarqy/fantasy-league-contracts/internal/domain/eventlog"
	cacherepo "github.com/riskibarqy/fantasy-league-contracts/internal/infrastructure/repository/cache"
	postgresrepo "github.com/riskibarqy/fantasy-league-contracts/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-league-contracts/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-league-contracts/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-league-contracts/internal/platform/id"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-contracts/internal/usecase"
)

// Codes are the code ids of the contract set, stored in this order on every
// node so ids stay stable across restarts.
type Codes struct {
	Manager     uint64
	Team        uint64
	League      uint64
	Player      uint64
	Application uint64
	Task        uint64
}

// Node is the running contract host plus the HTTP gateway in front of it.
type Node struct {
	Chain  *chain.App
	Codes  Codes
	Server *http.Server

	emitter *chain.Emitter
	store   kv.Store
	db      *sqlx.DB
	logger  *logging.Logger
}

func NewNode(cfg config.Config, logger *logging.Logger) (*Node, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, crerr.New("http server addr cannot be empty")
	}

	node := &Node{logger: logger}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	node.store = store

	emitter, err := chain.NewEmitter(cfg.EventWorkers, idgen.NewUUIDGenerator(), logger.Named("events"))
	if err != nil {
		_ = node.closeResources()
		return nil, err
	}
	node.emitter = emitter

	app, err := chain.NewApp(store, chain.Options{
		ChainID:       cfg.ChainID,
		AddressPrefix: cfg.ChainAddressPrefix,
		BlockInterval: cfg.ChainBlockInterval,
		Clock:         clockwork.NewRealClock(),
		Logger:        logger.Named("chain"),
		Emitter:       emitter,
	})
	if err != nil {
		_ = node.closeResources()
		return nil, err
	}
	node.Chain = app
	node.Codes = storeCodes(app, cfg)

	var events httpapi.EventReader
	if cfg.EventIndexEnabled {
		indexer, err := node.openEventIndex(cfg)
		if err != nil {
			_ = node.closeResources()
			return nil, err
		}
		emitter.Subscribe("event_index", indexer.Subscriber())
		events = indexer
	}

	handler := httpapi.NewHandler(app, events, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)
	node.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("node ready",
		"chain_id", cfg.ChainID,
		"in_memory_state", cfg.InMemoryState(),
		"event_index", cfg.EventIndexEnabled,
		"manager_code", node.Codes.Manager,
	)
	return node, nil
}

func storeCodes(app *chain.App, cfg config.Config) Codes {
	creators := policy.NewCreatorPolicy(cfg.PermittedCreators...)
	return Codes{
		Manager:     app.StoreCode(manager.New(creators, cfg.DevFeePercent)),
		Team:        app.StoreCode(team.New(creators)),
		League:      app.StoreCode(league.New(creators)),
		Player:      app.StoreCode(player.New()),
		Application: app.StoreCode(application.New(creators)),
		Task:        app.StoreCode(task.New()),
	}
}

func openStore(cfg config.Config) (kv.Store, error) {
	if cfg.InMemoryState() {
		return kv.NewMemStore(), nil
	}
	store, err := kv.OpenLevelStore(cfg.ChainDataDir)
	if err != nil {
		return nil, crerr.Wrapf(err, "open chain state at %s", cfg.ChainDataDir)
	}
	return store, nil
}

func (n *Node) openEventIndex(cfg config.Config) (*usecase.EventIndexService, error) {
	db, err := openEventDB(cfg)
	if err != nil {
		return nil, err
	}
	n.db = db

	var repo eventlog.Repository = postgresrepo.NewContractEventRepository(db)
	if cfg.CacheEnabled {
		repo = cacherepo.NewContractEventRepository(repo, basecache.NewStore(cfg.CacheTTL))
	}
	return usecase.NewEventIndexService(repo, cfg.EventIndexCircuit, n.logger.Named("event_index")), nil
}

// Close drains queued event deliveries before releasing state and the database.
func (n *Node) Close(ctx context.Context) error {
	var errs error
	if n.Server != nil {
		if err := n.Server.Shutdown(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "shutdown http server"))
		}
	}
	return crerr.CombineErrors(errs, n.closeResources())
}

func (n *Node) closeResources() error {
	var errs error
	if n.emitter != nil {
		n.emitter.Flush()
		n.emitter.Close()
	}
	if n.db != nil {
		if err := n.db.Close(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close event index database"))
		}
	}
	if closer, ok := n.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close chain state"))
		}
	}
	return errs
}
