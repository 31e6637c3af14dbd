package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	es "github.com/impierce/ssi-agent-sub000/internal/eventsourcing"
	esmetrics "github.com/impierce/ssi-agent-sub000/internal/eventsourcing/metrics"
	heldcredential "github.com/impierce/ssi-agent-sub000/internal/holder/credential"
	heldoffer "github.com/impierce/ssi-agent-sub000/internal/holder/offer"
	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
	"github.com/impierce/ssi-agent-sub000/internal/identity/presentation"
	identityservice "github.com/impierce/ssi-agent-sub000/internal/identity/service"
	issuercredential "github.com/impierce/ssi-agent-sub000/internal/issuance/credential"
	issueroffer "github.com/impierce/ssi-agent-sub000/internal/issuance/offer"
	"github.com/impierce/ssi-agent-sub000/internal/issuance/servermetadata"
	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/platform/config"
	"github.com/impierce/ssi-agent-sub000/internal/platform/database"
	"github.com/impierce/ssi-agent-sub000/internal/platform/httpserver"
	"github.com/impierce/ssi-agent-sub000/internal/platform/kafka"
	"github.com/impierce/ssi-agent-sub000/internal/platform/kafka/producer"
	"github.com/impierce/ssi-agent-sub000/internal/platform/logger"
	platformredis "github.com/impierce/ssi-agent-sub000/internal/platform/redis"
	"github.com/impierce/ssi-agent-sub000/internal/services/oid4vci"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	httptransport "github.com/impierce/ssi-agent-sub000/internal/transport/http"
	"github.com/impierce/ssi-agent-sub000/internal/verification/authrequest"
	"github.com/impierce/ssi-agent-sub000/internal/verification/connection"
	"github.com/impierce/ssi-agent-sub000/migrations"
)

var supportedSigningAlgorithms = []string{"EdDSA"}

// main wires configuration, storage, services, dispatchers and the router,
// then runs the server until a shutdown signal.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("agent stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Agent, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subject, err := signer.New(cfg.SigningSecret, cfg.ExternalURL)
	if err != nil {
		return err
	}

	// Event log: postgres when configured, in-memory otherwise.
	var store es.EventStore = es.NewMemoryEventStore()
	pool, err := database.New(database.Config{
		URL:             cfg.PostgresURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // shutdown path
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			return err
		}
		store = es.NewPostgresEventStore(pool.DB())
		log.Info("event store: postgres")
	} else {
		log.Info("event store: in-memory")
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // shutdown path
		log.Info("view store: redis")
	} else {
		log.Info("view store: in-memory")
	}

	metrics := esmetrics.New()
	retry := es.NewRetryWorker(cfg.ProjectionRetry.Interval, cfg.ProjectionRetry.MaxAttempts, log, metrics)
	retry.Start()
	defer retry.Stop()

	// Optional event fan-out to Kafka.
	var publisher *es.EventPublisher
	if cfg.KafkaBrokers != "" {
		if err := kafka.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.EventTopic, 3); err != nil {
			return err
		}
		prod, err := producer.New(producer.Config{Brokers: cfg.KafkaBrokers}, log)
		if err != nil {
			return err
		}
		defer prod.Close()
		publisher = es.NewEventPublisher(prod, cfg.EventTopic)
		log.Info("event publisher: kafka", "topic", cfg.EventTopic)
	}

	common := []es.Option{
		es.WithRetryWorker(retry),
		es.WithLogger(log),
		es.WithMetrics(metrics),
	}
	withProjectors := func(projectors ...es.Projector) []es.Option {
		if publisher != nil {
			projectors = append(projectors, publisher)
		}
		return append([]es.Option{es.WithProjectors(projectors...)}, common...)
	}

	// Issuer-side offer family.
	offerViews := newViewRepository(rdb, "view:offer:", issueroffer.NewView)
	offersByCode := newViewRepository(rdb, "index:offer:pre-authorized-code:", issueroffer.NewView)
	offersByToken := newViewRepository(rdb, "index:offer:access-token:", issueroffer.NewView)
	offerServices := &issueroffer.Services{
		CredentialIssuer:           cfg.ExternalURL,
		SupportedDIDMethods:        []string{signer.MethodDIDKey, signer.MethodDIDWeb},
		SupportedSigningAlgorithms: supportedSigningAlgorithms,
	}
	offers := es.NewCommandHandler(store,
		func() *issueroffer.Offer { return issueroffer.New(offerServices) },
		issueroffer.UnmarshalEvent,
		withProjectors(
			es.NewViewProjector(offerViews, issueroffer.NewView),
			es.NewSecondaryIndexProjector(offersByCode, issueroffer.PreAuthorizedCodeKey),
			es.NewSecondaryIndexProjector(offersByToken, issueroffer.AccessTokenKey),
		)...,
	)

	// Issuer-side credential family.
	credentialViews := newViewRepository(rdb, "view:credential:", issuercredential.NewView)
	credentialsByOffer := newViewRepository(rdb, "index:credential:offer:", issuercredential.NewByOfferView)
	credentialServices := &issuercredential.Services{
		Signer:           subject,
		CredentialIssuer: cfg.ExternalURL,
		DIDMethod:        cfg.DefaultDIDMethod,
	}
	credentials := es.NewCommandHandler(store,
		func() *issuercredential.Credential { return issuercredential.New(credentialServices) },
		issuercredential.UnmarshalEvent,
		withProjectors(
			es.NewViewProjector(credentialViews, issuercredential.NewView),
			es.NewSecondaryIndexProjector(credentialsByOffer, issuercredential.OfferIDKey),
		)...,
	)

	// Server metadata singleton.
	serverMetadataViews := newViewRepository(rdb, "view:server-metadata:", servermetadata.NewView)
	serverMetadataHandler := es.NewCommandHandler(store,
		servermetadata.New,
		servermetadata.UnmarshalEvent,
		withProjectors(es.NewViewProjector(serverMetadataViews, servermetadata.NewView))...,
	)
	if err := initializeServerMetadata(ctx, serverMetadataHandler, cfg); err != nil {
		return err
	}

	// Holder-side families.
	heldOfferViews := newViewRepository(rdb, "view:held-offer:", heldoffer.NewView)
	heldOfferServices := heldoffer.Services{
		Client:    oid4vci.NewHTTPClient(),
		Signer:    subject,
		DIDMethod: cfg.DefaultDIDMethod,
	}
	heldOffers := es.NewCommandHandler(store,
		func() *heldoffer.Offer { return heldoffer.New(heldOfferServices) },
		heldoffer.UnmarshalEvent,
		withProjectors(es.NewViewProjector(heldOfferViews, heldoffer.NewView))...,
	)

	heldCredentialViews := newViewRepository(rdb, "view:held-credential:", heldcredential.NewView)
	heldCredentialsByOffer := newViewRepository(rdb, "index:held-credential:offer:", heldcredential.NewByOfferView)
	heldCredentials := es.NewCommandHandler(store,
		heldcredential.New,
		heldcredential.UnmarshalEvent,
		withProjectors(
			es.NewViewProjector(heldCredentialViews, heldcredential.NewView),
			es.NewSecondaryIndexProjector(heldCredentialsByOffer, heldcredential.OfferIDKey),
		)...,
	)

	// Verifier-side families.
	authRequestViews := newViewRepository(rdb, "view:authorization-request:", authrequest.NewView)
	authRequestsByState := newViewRepository(rdb, "index:authorization-request:state:", authrequest.NewView)
	authRequestServices := authrequest.Services{
		Signer:      subject,
		ExternalURL: cfg.ExternalURL,
		DIDMethod:   cfg.DefaultDIDMethod,
	}
	authRequests := es.NewCommandHandler(store,
		func() *authrequest.AuthorizationRequest { return authrequest.New(authRequestServices) },
		authrequest.UnmarshalEvent,
		withProjectors(
			es.NewViewProjector(authRequestViews, authrequest.NewView),
			es.NewSecondaryIndexProjector(authRequestsByState, authrequest.StateKey),
		)...,
	)

	connectionViews := newViewRepository(rdb, "view:connection:", connection.NewView)
	connectionServices := connection.Services{
		RequestByState: func(ctx context.Context, state string) (*openid4vc.AuthorizationRequestObject, bool, error) {
			view, found, err := authRequestsByState.Load(ctx, state)
			if err != nil || !found {
				return nil, false, err
			}
			return view.RequestObject, view.RequestObject != nil, nil
		},
		SupportedSigningAlgorithms: supportedSigningAlgorithms,
	}
	connections := es.NewCommandHandler(store,
		func() *connection.Connection { return connection.New(connectionServices) },
		connection.UnmarshalEvent,
		withProjectors(es.NewViewProjector(connectionViews, connection.NewView))...,
	)

	// Identity families.
	documentViews := newViewRepository(rdb, "view:document:", document.NewView)
	documents := es.NewCommandHandler(store,
		func() *document.Document { return document.New(document.Services{Signer: subject}) },
		document.UnmarshalEvent,
		withProjectors(es.NewViewProjector(documentViews, document.NewView))...,
	)

	serviceViews := newViewRepository(rdb, "view:service:", identityservice.NewView)
	serviceServices := identityservice.Services{
		Signer:      subject,
		ExternalURL: cfg.ExternalURL,
		DIDMethod:   cfg.DefaultDIDMethod,
	}
	services := es.NewCommandHandler(store,
		func() *identityservice.Service { return identityservice.New(serviceServices) },
		identityservice.UnmarshalEvent,
		withProjectors(es.NewViewProjector(serviceViews, identityservice.NewView))...,
	)

	presentationViews := newViewRepository(rdb, "view:presentation:", presentation.NewView)
	presentations := es.NewCommandHandler(store,
		func() *presentation.Presentation {
			return presentation.New(presentation.Services{Signer: subject, DIDMethod: cfg.DefaultDIDMethod})
		},
		presentation.UnmarshalEvent,
		withProjectors(es.NewViewProjector(presentationViews, presentation.NewView))...,
	)

	app := &httptransport.App{
		Offers:              offers,
		OfferViews:          offerViews,
		OffersByPreAuthCode: offersByCode,
		OffersByAccessToken: offersByToken,

		Credentials:        credentials,
		CredentialViews:    credentialViews,
		CredentialsByOffer: credentialsByOffer,

		ServerMetadata:      serverMetadataHandler,
		ServerMetadataViews: serverMetadataViews,

		HeldOffers:     heldOffers,
		HeldOfferViews: heldOfferViews,

		HeldCredentials:        heldCredentials,
		HeldCredentialViews:    heldCredentialViews,
		HeldCredentialsByOffer: heldCredentialsByOffer,

		AuthRequests:        authRequests,
		AuthRequestViews:    authRequestViews,
		AuthRequestsByState: authRequestsByState,

		Connections:     connections,
		ConnectionViews: connectionViews,

		Documents:     documents,
		DocumentViews: documentViews,

		IdentityServices: services,
		ServiceViews:     serviceViews,

		Presentations:     presentations,
		PresentationViews: presentationViews,
	}

	router := httptransport.NewRouter(httptransport.NewHandler(app, log))
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("ssi agent listening", "addr", cfg.Addr, "external_url", cfg.ExternalURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newViewRepository backs views with redis when it is configured, falling
// back to process memory.
func newViewRepository[V es.View](rdb *platformredis.Client, prefix string, newView func() V) es.ViewRepository[V] {
	if rdb != nil {
		return es.NewRedisViewRepository(rdb.Client, prefix, newView)
	}
	return es.NewMemoryViewRepository(newView)
}

// initializeServerMetadata publishes the issuer and authorization server
// documents. Rerunning at startup is fine: an already initialized singleton
// rejects the command and we move on.
func initializeServerMetadata(ctx context.Context, dispatcher *httptransport.ServerMetadataDispatcher, cfg config.Agent) error {
	base := strings.TrimSuffix(cfg.ExternalURL, "/")
	err := dispatcher.Execute(ctx, httptransport.ServerMetadataID, servermetadata.InitializeServerMetadata{
		CredentialIssuerMetadata: openid4vc.CredentialIssuerMetadata{
			CredentialIssuer:                  base,
			CredentialEndpoint:                base + "/openid4vci/credential",
			CredentialConfigurationsSupported: map[string]openid4vc.CredentialConfiguration{},
		},
		AuthorizationServerMetadata: openid4vc.AuthorizationServerMetadata{
			Issuer:        base,
			TokenEndpoint: base + "/auth/token",
		},
	}, nil)
	if err != nil && !errors.Is(err, servermetadata.ErrAlreadyInitialized) {
		return err
	}
	return nil
}
