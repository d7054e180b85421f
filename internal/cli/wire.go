//go:build wireinject
// +build wireinject

//go:generate go run ../../cmd/providergen --root ../..

package cli

import (
	"github.com/google/wire"
	"github.com/nkaewam/catalogctl/internal/cli/auth"
	"github.com/nkaewam/catalogctl/internal/cli/banner"
	"github.com/nkaewam/catalogctl/internal/cli/contact"
	"github.com/nkaewam/catalogctl/internal/cli/product"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/devserver"
	"go.uber.org/zap"
)

// Container holds all the injected services
type Container struct {
	UI      ui.Service
	Auth    auth.Service
	Product product.Service
	Banner  banner.Service
	Contact contact.Service
	Config  *config.Config
	Logger  *zap.Logger
}

// DevServer is the local backend with its config and logger
type DevServer struct {
	Server *devserver.Server
	Config *config.Config
	Logger *zap.Logger
}

// ProviderSet is the Wire provider set for all CLI services
var ProviderSet = wire.NewSet(
	GeneratedProviderSet,
)

// InitializeContainer initializes the dependency injection container
func InitializeContainer(configPath string) (*Container, func(), error) {
	wire.Build(
		ProviderSet,
		wire.Struct(new(Container), "*"),
	)
	return &Container{}, nil, nil
}

// InitializeDevServer builds the local backend. It does not open the
// session store, so other commands can run while it serves.
func InitializeDevServer(configPath string) (*DevServer, error) {
	wire.Build(
		ProviderSet,
		wire.Struct(new(DevServer), "*"),
	)
	return &DevServer{}, nil
}
