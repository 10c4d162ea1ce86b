package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/pilight"
	"github.com/TeamNorCal/pilight/version"
)

var (
	logger = logxi.New("pilight")

	verbose    = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	configFile = flag.String("config", "pilight.yaml", "The YAML file holding the strip, device, broker and scene configuration")
	sceneURL   = flag.String("scene-url", "", "Optional http(s):// or file:// URL polled for the scene to render, overrides the configured scene")
	scenePoll  = flag.Duration("scene-poll", 2*time.Second, "Interval at which the scene URL is polled")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       scene → transforms → LED strip (pilight)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "pilight renders a chain of time varying color transforms onto a locally attached strip, or streams the frames to a remote driver over a message queue")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}
	pilight.SetLogger(logger)

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s\n", os.Args[0], version.BuildTime, version.GitHash))

	quitC := make(chan struct{})
	errorC := make(chan errors.Error, 10)

	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopC
		close(quitC)
	}()

	runTUI(errorC, quitC)

	if err := run(errorC, quitC); err != nil {
		logger.Error("pilight stopped", "error", err.Error())
		os.Exit(-1)
	}
}

func run(errorC chan errors.Error, quitC chan struct{}) (err errors.Error) {

	cfg, err := pilight.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	device, err := pilight.NewDevice(cfg)
	if err != nil {
		return err
	}

	gw := &pilight.Gateway{}
	doneC, err := gw.Start(cfg, device, errorC, quitC)
	if err != nil {
		return err
	}

	if *verbose {
		go runMonitoring(gw.SubscribeC, quitC)
	}

	if len(*sceneURL) != 0 {
		source, errGo := url.Parse(*sceneURL)
		if errGo != nil {
			return errors.Wrap(errGo).With("url", *sceneURL).With("stack", stack.Trace().TrimRuntime())
		}
		go pilight.NewScenePoller(*source, *scenePoll, gw.SceneC, errorC).Run(quitC)
	}

	logger.Info("rendering", "device", cfg.Device, "leds", cfg.Lights.NumLEDs, "fps", cfg.FPS)

	return <-doneC
}
