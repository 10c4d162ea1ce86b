package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/pilight"
	"github.com/TeamNorCal/pilight/model"
	"github.com/TeamNorCal/pilight/version"
)

var (
	logger = logxi.New("pilightctl")

	verbose    = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	configFile = flag.String("config", "pilight.yaml", "The YAML file holding the broker configuration")
	broker     = flag.String("broker", "", "Overrides the broker URL of the configuration, amqp:// or mqtt://")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options] command      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "pilightctl sends control commands to a running light driver")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "    start [playlist-id]")
	fmt.Fprintln(os.Stderr, "    stop")
	fmt.Fprintln(os.Stderr, "    restart")
	fmt.Fprintln(os.Stderr, "    color <channel> <rrggbb>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
}

func init() {
	flag.Usage = usage
}

func main() {

	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}
	pilight.SetLogger(logger)

	if err := send(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		flag.Usage()
		os.Exit(-1)
	}
}

func send(args []string) (err errors.Error) {
	if len(args) == 0 {
		return errors.New("no command given").With("stack", stack.Trace().TrimRuntime())
	}

	cfg, err := pilight.LoadConfig(*configFile)
	if err != nil {
		return err
	}
	if len(*broker) != 0 {
		cfg.Broker.URL = *broker
	}

	cmdr, err := pilight.NewControlCommander(cfg)
	if err != nil {
		return err
	}
	defer cmdr.Close()

	switch {
	case args[0] == "start" && len(args) == 1:
		cmdr.SendStart()
	case args[0] == "start" && len(args) == 2:
		id, errGo := strconv.Atoi(args[1])
		if errGo != nil {
			return errors.Wrap(errGo).With("playlist", args[1]).With("stack", stack.Trace().TrimRuntime())
		}
		cmdr.SendStartPlaylist(id)
	case args[0] == "stop" && len(args) == 1:
		cmdr.SendStop()
	case args[0] == "restart" && len(args) == 1:
		cmdr.SendRestart()
	case args[0] == "color" && len(args) == 3:
		color, err := model.FromHex(args[2])
		if err != nil {
			return err
		}
		cmdr.SendChannelColor(args[1], color)
	default:
		return errors.New("unknown command").With("args", args).With("stack", stack.Trace().TrimRuntime())
	}

	if stats := cmdr.Stats(); stats.Dropped != 0 {
		return errors.New("command could not be delivered").With("args", args).With("queue", cfg.Broker.ControlQueue).With("stack", stack.Trace().TrimRuntime())
	}

	logger.Debug("command sent", "args", args)
	return nil
}
