// Package gatewaymain contains the assembly and run loop of the gateway
// server, shared by the cmds.
package gatewaymain

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/dgca/paywalled-blog/pkg/access"
	"github.com/dgca/paywalled-blog/pkg/api"
	"github.com/dgca/paywalled-blog/pkg/content"
	"github.com/dgca/paywalled-blog/pkg/events"
	"github.com/dgca/paywalled-blog/pkg/helpers"
	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/oracle"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

// Gateway holds the initialized components of the running gateway
type Gateway struct {
	Config    *utils.GatewayConfig
	Gate      *access.Gate
	Oracle    model.EntitlementOracle
	Directory model.ContentDirectory
	Receipts  model.PurchaseReceiptPersister

	publisher *events.Publisher
	server    *http.Server
	cron      *cron.Cron
}

// InitGateway builds the gateway components from the config
func InitGateway(config *utils.GatewayConfig) (*Gateway, error) {
	client, err := ethclient.Dial(config.EthAPIURL)
	if err != nil {
		return nil, errors.Wrap(err, "Error connecting to eth API")
	}

	var transactor *bind.TransactOpts
	if config.PaymentPrivateKey != "" {
		transactor, err = oracle.TransactorFromHexKey(
			config.PaymentPrivateKey,
			big.NewInt(config.ChainID),
		)
		if err != nil {
			return nil, err
		}
	}

	ethOracle, err := oracle.NewEthOracle(&oracle.NewEthOracleParams{
		Backend:         client,
		ContractAddress: config.ContractAddress(),
		Transactor:      transactor,
	})
	if err != nil {
		return nil, err
	}

	receipts, err := helpers.ReceiptPersister(config)
	if err != nil {
		return nil, errors.Wrap(err, "Error initializing receipt persister")
	}

	resolver := access.NewResolver(ethOracle)
	orchestrator := access.NewOrchestrator(&access.NewOrchestratorParams{
		Oracle:   ethOracle,
		Resolver: resolver,
		Receipts: receipts,
	})
	gate := access.NewGate(resolver, orchestrator)

	return &Gateway{
		Config:    config,
		Gate:      gate,
		Oracle:    ethOracle,
		Directory: content.NewDirectory(config.ContentDir),
		Receipts:  receipts,
	}, nil
}

// Run starts the transition publisher, the reconciliation cron and the HTTP
// server, then blocks until the server stops
func (g *Gateway) Run() error {
	err := g.startPublisher()
	if err != nil {
		return err
	}
	g.startReconcileCron()
	g.setupKillNotify()

	handlers := api.NewHandlers(&api.NewHandlersParams{
		Directory: g.Directory,
		Oracle:    g.Oracle,
		Gate:      g.Gate,
		Receipts:  g.Receipts,
	})
	g.server = &http.Server{
		Addr:    g.Config.ListenAddr,
		Handler: api.NewRouter(handlers),
	}

	log.Infof("Gateway listening on %v", g.Config.ListenAddr)
	err = g.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (g *Gateway) startPublisher() error {
	if g.Config.PubSubProjectID == "" {
		return nil
	}
	publisher, err := events.NewPublisher(
		context.Background(),
		g.Config.PubSubProjectID,
		g.Config.PubSubTopicName,
	)
	if err != nil {
		return errors.Wrap(err, "Error initializing transition publisher")
	}
	g.publisher = publisher
	g.Gate.Subscribe(publisher.HandleTransition)
	log.Infof("Publishing transitions to topic %v", g.Config.PubSubTopicName)
	return nil
}

func (g *Gateway) startReconcileCron() {
	if g.Config.CronConfig == "" {
		return
	}
	maxAge := time.Duration(g.Config.PendingMaxAgeSecs) * time.Second
	g.cron = cron.New()
	err := g.cron.AddFunc(g.Config.CronConfig, func() {
		g.Gate.ReconcilePending(context.Background(), maxAge)
	})
	if err != nil {
		log.Errorf("Error adding reconcile cron func: err: %v", err)
		return
	}
	g.cron.Start()
	log.Infof("Reconciling pending payments on schedule %v", g.Config.CronConfig)
}

func (g *Gateway) setupKillNotify() {
	killChan := make(chan os.Signal, 1)
	signal.Notify(killChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-killChan
		g.cleanup()
	}()
}

func (g *Gateway) cleanup() {
	if g.cron != nil {
		g.cron.Stop()
	}
	if g.publisher != nil {
		err := g.publisher.Close()
		if err != nil {
			log.Errorf("Error closing transition publisher: err: %v", err)
		}
	}
	if g.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := g.server.Shutdown(ctx)
		if err != nil {
			log.Errorf("Error shutting down server: err: %v", err)
		}
	}
	log.Info("Gateway stopped")
}
