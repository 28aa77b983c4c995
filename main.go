/*
Headless mesh viewer: loads the testbed cubes, keeps them normalized and
reloads them when their files change.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/testbed"
)

func main() {
	configPath := flag.String("config", "assets/viewer.toml", "path to the viewer TOML config")
	primitives := flag.String("primitives", "assets/primitives", "directory holding the testbed primitives")
	flag.Parse()

	config, err := engine.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}

	tb, err := testbed.NewTestViewer(config, *primitives)
	if err != nil {
		core.LogFatal(err.Error())
	}

	viewer, err := engine.New(tb.Application)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := viewer.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		viewer.Stop()
	}()

	// run viewer; the scene is torn down on this goroutine once Run returns
	runErr := viewer.Run()
	if err := viewer.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
