package main

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/depengine/config"
	"github.com/kbukum/depengine/di"
	"github.com/kbukum/depengine/logger"
)

// Clock is registered eagerly at startup.
type Clock interface {
	Now() time.Time
}

// Greeter is registered lazily and built from the registered Clock.
type Greeter interface {
	Greet(name string) string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type clockGreeter struct {
	clock Clock
	log   *logger.Logger
}

func (g *clockGreeter) Greet(name string) string {
	switch h := g.clock.Now().Hour(); {
	case h < 12:
		return fmt.Sprintf("Good morning, %s", name)
	case h < 18:
		return fmt.Sprintf("Good afternoon, %s", name)
	default:
		return fmt.Sprintf("Good evening, %s", name)
	}
}

func (g *clockGreeter) Close() error {
	g.log.Debug("Greeter closed")
	return nil
}

// registerServices wires the demo services into c and returns their
// registration handles.
func registerServices(c di.Container, cfg config.EngineConfig, log *logger.Logger) []io.Closer {
	opt := di.WithPolicy(di.OnRelease)
	if cfg.ProtectOnRegister {
		opt = di.Protected()
	}

	clock := di.Register[Clock](c, systemClock{}, opt)
	greeter := di.RegisterLazyE[Greeter](c, func() (Greeter, error) {
		clk, err := di.Resolve[Clock](c)
		if err != nil {
			return nil, err
		}
		return &clockGreeter{clock: clk, log: log.WithComponent("greeter")}, nil
	}, opt)

	log.Info("Services registered", logger.Fields(
		logger.FieldPolicy, clock.Policy().String(),
		"count", 2,
	))
	return []io.Closer{greeter, clock}
}
