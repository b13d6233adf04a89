//go:build wireinject
// +build wireinject

// Wire injector.
//
// Regenerate wire_gen.go after changing a provider:
//
//	go run github.com/google/wire/cmd/wire ./cmd/api
//
// Dependency chain for a sale:
//
//	*gin.Engine → *handler.SaleHandler → *appsale.RegisterSaleUseCase
//	  → sale.Repository, roll.Repository, shared.Transactor → *gorm.DB → *config.Config

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	approll "github.com/xiebiao/fabric-inventory/internal/application/roll"
	appsale "github.com/xiebiao/fabric-inventory/internal/application/sale"
	"github.com/xiebiao/fabric-inventory/internal/domain/roll"
	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/messaging"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/handler"
)

// infrastructureSet connections to MySQL, Redis and RabbitMQ
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	messaging.NewEventPublisher,
	provideIdempotencyStore,
	provideClock,
)

// repositorySet repositories and the transaction manager
var repositorySet = wire.NewSet(
	mysql.NewRollRepository,
	mysql.NewSaleRepository,
	mysql.NewTxManager,
	wire.Bind(new(shared.Transactor), new(*mysql.TxManager)),
)

// domainSet domain services
var domainSet = wire.NewSet(
	roll.NewService,
)

// applicationSet use cases
var applicationSet = wire.NewSet(
	approll.NewAddRollUseCase,
	approll.NewListInventoryUseCase,
	appsale.NewRegisterSaleUseCase,
)

// handlerSet HTTP handlers
var handlerSet = wire.NewSet(
	handler.NewRollHandler,
	handler.NewSaleHandler,
)

// InitializeApp builds the HTTP engine. The cleanup closes the publisher,
// Redis and MySQL in reverse order of creation.
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil, nil
}
