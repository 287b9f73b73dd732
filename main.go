/*
This is an example application that renders the testbed scene with the
engine package, headlessly, optionally capturing frames to a file.
*/
package main

import (
	"flag"

	"github.com/spaghettifunk/scena/engine/config"
	"github.com/spaghettifunk/scena/engine/core"
	"github.com/spaghettifunk/scena/testbed"
)

func main() {
	settingsPath := flag.String("settings", "", "path to a TOML settings file")
	flag.Parse()

	settings := config.DefaultSettings()
	if *settingsPath != "" {
		loaded, err := config.Load(*settingsPath)
		if err != nil {
			core.LogFatal("loading settings: %v", err)
		}
		settings = loaded
	}
	core.SetLogLevel(settings.ParsedLogLevel())

	demo, err := testbed.NewDemo(settings)
	if err != nil {
		core.LogFatal("building demo scene: %v", err)
	}
	if err := demo.Run(); err != nil {
		core.LogFatal("rendering: %v", err)
	}
	core.LogInfo("rendered %.1fs at %d fps", settings.Duration, settings.FrameRate)
}
