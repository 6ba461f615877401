package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-nopower/internal/console"
	"github.com/pixil98/go-nopower/internal/driver"
	"github.com/pixil98/go-nopower/internal/lang"
	"github.com/pixil98/go-nopower/internal/listener"
	"github.com/pixil98/go-nopower/internal/messaging"
	"github.com/pixil98/go-nopower/internal/plugins"
	"github.com/pixil98/go-nopower/internal/plugins/nopower"
	"github.com/pixil98/go-service/service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	world, err := cfg.World.BuildWorld()
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	perms, err := cfg.Storage.BuildPermissions()
	if err != nil {
		return nil, err
	}

	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewNatsPublisher(natsServer)

	host := &plugins.Host{
		World:       world,
		Permissions: perms,
		Lang:        lang.New(cfg.fallbackLocale()),
		Chat:        publisher,
		Replicator:  publisher,
		DataDir:     cfg.Storage.DataDir,
		ConfigDir:   cfg.Storage.ConfigDir,
	}

	pm := plugins.NewPluginManager(host)
	err = pm.Register(context.Background(), nopower.New())
	if err != nil {
		return nil, fmt.Errorf("registering plugins: %w", err)
	}

	// Setup the driver
	var opts []driver.DriverOpt
	if d := cfg.tickInterval(); d > 0 {
		opts = append(opts, driver.WithTickLength(d))
	}
	if d, ok := cfg.saveInterval(); ok {
		opts = append(opts, driver.WithSaveInterval(d))
	}
	opts = append(opts, driver.WithStartGate(natsServer.WaitReady))
	drv := driver.NewDriver(world, pm, opts...)

	// Create console listeners
	cm := listener.NewConnectionManager(console.NewConsole(perms, world, drv))
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-listener-%d", l.Protocol, i)] = lw
	}

	return service.WorkerList{
		"nats":      natsServer,
		"input":     messaging.NewInputListener(natsServer, world),
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}
