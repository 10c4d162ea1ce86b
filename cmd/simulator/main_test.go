package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeamNorCal/pilight"
	"github.com/TeamNorCal/pilight/model"
)

func testConfig(t *testing.T) *pilight.Config {
	cfg := pilight.DefaultConfig()
	cfg.Lights.NumLEDs = 2
	cfg.Scene = model.Scene{BaseColors: []string{"ff0000", "00ff00"}}

	inst, err := model.NewTransformInstance("scroll", 1, `{"length": 4, "blend": true}`)
	require.Nil(t, err)
	cfg.Scene.Transforms = append(cfg.Scene.Transforms, *inst)
	return cfg
}

func simulate(t *testing.T, cfg *pilight.Config, req *http.Request) (code int, frames [][]string) {
	rec := httptest.NewRecorder()
	serveSimulation(rec, req, cfg)
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frames))
	}
	return rec.Code, frames
}

func TestSimulateConfiguredScene(t *testing.T) {
	code, frames := simulate(t, testConfig(t), httptest.NewRequest(http.MethodGet, "/simulate?dt=0.5&frames=3", nil))
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, [][]string{
		{"#ff0000", "#00ff00"},
		{"#40bf00", "#bf4000"},
		{"#808000", "#808000"},
	}, frames)

	code, frames = simulate(t, testConfig(t), httptest.NewRequest(http.MethodGet, "/simulate", nil))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, frames, defaultFrames)
}

func TestSimulatePostedScene(t *testing.T) {
	body := strings.NewReader(`{"baseColors": ["0000ff"]}`)
	code, frames := simulate(t, testConfig(t), httptest.NewRequest(http.MethodPost, "/simulate?frames=2", body))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, [][]string{{"#0000ff", "#000000"}, {"#0000ff", "#000000"}}, frames)
}

func TestSimulateRejects(t *testing.T) {
	cfg := testConfig(t)
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/simulate?dt=0", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?dt=fast", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?frames=100000", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?dt=Inf", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?dt=NaN", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?frames=NaN", nil),
		httptest.NewRequest(http.MethodGet, "/simulate?frames=-Inf", nil),
		httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader("{")),
		httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(`{"baseColors": ["blue"]}`)),
	} {
		code, _ := simulate(t, cfg, req)
		assert.Equal(t, http.StatusBadRequest, code, req.URL.String())
	}

	code, _ := simulate(t, cfg, httptest.NewRequest(http.MethodDelete, "/simulate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}
