package main

import (
	"errors"
	"os"

	"github.com/BerryBytes/credchain/cmd/root"
	cmdRun "github.com/BerryBytes/credchain/cmd/run"
	"github.com/BerryBytes/credchain/internal/flow"
	generalutils "github.com/BerryBytes/credchain/utils/general"
	"github.com/charmbracelet/log"
)

func main() {
	ctx := generalutils.NewGeneralUtilsManager().HandleSignals()

	runDeps, err := cmdRun.DefaultDependencies()
	if err != nil {
		log.Fatal("Failed to initialize", "error", err)
	}

	if err := root.NewRootCmd(runDeps).ExecuteContext(ctx); err != nil {
		// The report already explains a failed stage.
		if !errors.Is(err, flow.ErrStageFailed) {
			log.Error(err)
		}
		os.Exit(1)
	}
}
