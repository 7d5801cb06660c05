package generalutils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

type GeneralUtilsInterface interface {
	HandleSignals() context.Context
}

type DefaultGeneralUtilsManager struct{}

// HandleSignals returns a context that is cancelled on the first SIGINT or
// SIGTERM so in-flight requests are abandoned.
func (g *DefaultGeneralUtilsManager) HandleSignals() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn("Received termination signal", "signal", sig)
		cancel()
	}()

	return ctx
}

func NewGeneralUtilsManager() GeneralUtilsInterface {
	return &DefaultGeneralUtilsManager{}
}
