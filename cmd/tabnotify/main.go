package main

import (
	"os"

	"github.com/cristianoliveira/tabnotify/cmd"
	"github.com/cristianoliveira/tabnotify/internal/colors"
	"github.com/cristianoliveira/tabnotify/internal/config"
	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.SetSamplePresets(notify.DefaultPresets())
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("unable to initialize logging: " + err.Error())
	}
	defer func() { _ = logging.ShutdownGlobal() }()

	logging.Debug("startup", "args", os.Args[1:])
	if err := cmd.Execute(); err != nil {
		colors.Error(err.Error())
		logging.Error("command failed", "error", err)
		return 1
	}
	return 0
}
