package main

// The simulator serves previews of a scene without touching any device, each
// request renders a sequence of frames and returns them as hex colors

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/pilight"
	"github.com/TeamNorCal/pilight/model"
)

var (
	listen     = flag.String("listen", ":8080", "Address to bind to")
	configFile = flag.String("config", "pilight.yaml", "The YAML file holding the strip geometry and default scene")
	maxFrames  = flag.Int("max-frames", 1000, "Upper bound on the frames rendered by a single request")
)

var (
	// create Logger interface
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "pilight-simulator")
)

const (
	defaultDT     = 0.1
	defaultFrames = 100
)

func main() {

	if !flag.Parsed() {
		envflag.Parse()
	}
	pilight.SetLogger(logW)

	cfg, err := pilight.LoadConfig(*configFile)
	if err != nil {
		logW.Fatal(err.Error())
		os.Exit(-1)
	}

	http.HandleFunc("/simulate", func(w http.ResponseWriter, r *http.Request) {
		serveSimulation(w, r, cfg)
	})

	if errGo := http.ListenAndServe(*listen, nil); errGo != nil {
		logW.Warn(errGo.Error())
	}
}

// queryFloat returns the finite number held by a query parameter, or def
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	text := r.URL.Query().Get(name)
	if text == "" {
		return def, nil
	}
	value, errGo := strconv.ParseFloat(text, 64)
	if errGo != nil {
		return 0, errGo
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be finite", name)
	}
	return value, nil
}

// serveSimulation renders the configured scene for GET requests, or the JSON
// scene in the body of POST requests
func serveSimulation(w http.ResponseWriter, r *http.Request, cfg *pilight.Config) {

	dt, errGo := queryFloat(r, "dt", defaultDT)
	if errGo != nil || dt <= 0 {
		http.Error(w, "dt must be a positive number", http.StatusBadRequest)
		return
	}
	frames, errGo := queryFloat(r, "frames", defaultFrames)
	if errGo != nil || frames < 0 || int(frames) > *maxFrames {
		http.Error(w, fmt.Sprintf("frames must be between 0 and %d", *maxFrames), http.StatusBadRequest)
		return
	}

	scene := cfg.Scene.DeepCopy()
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		body, errGo := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if errGo != nil {
			http.Error(w, errGo.Error(), http.StatusBadRequest)
			return
		}
		parsed, err := model.ParseScene(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scene = parsed
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	base, err := scene.Colors(cfg.Lights.NumLEDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hexColors := [][]string{}
	for frame := range pilight.Simulate(dt, int(frames), base, scene.Transforms) {
		hexColors = append(hexColors, frame.Hex())
	}

	logW.Debug(fmt.Sprintf("simulated %d frames at dt %v", len(hexColors), dt))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hexColors)
}
