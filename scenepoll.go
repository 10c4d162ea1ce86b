package pilight

// This module polls an external source for the scene to render, the web
// application that edits scenes serves them as JSON over HTTP, a local file
// can be used when running without it

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/pilight/model"
)

type ScenePoller struct {
	url      url.URL
	interval time.Duration
	client   *http.Client
	sceneC   chan<- *model.Scene
	errorC   chan<- errors.Error
}

func NewScenePoller(source url.URL, interval time.Duration, sceneC chan<- *model.Scene, errorC chan<- errors.Error) (poller *ScenePoller) {
	return &ScenePoller{
		url:      source,
		interval: interval,
		client:   &http.Client{Timeout: interval},
		sceneC:   sceneC,
		errorC:   errorC,
	}
}

// fetch can be used to extract the current scene from the source
func (poller *ScenePoller) fetch() (scene *model.Scene, err errors.Error) {

	body := []byte{}

	switch poller.url.Scheme {
	case "http", "https":
		resp, errGo := poller.client.Get(poller.url.String())
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", poller.url.String()).With("stack", stack.Trace().TrimRuntime())
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.New("unexpected status").With("status", resp.Status).With("url", poller.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

		if body, errGo = io.ReadAll(resp.Body); errGo != nil {
			return nil, errors.Wrap(errGo).With("url", poller.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

	case "file":
		var errGo error
		if body, errGo = os.ReadFile(poller.url.Path); errGo != nil {
			return nil, errors.Wrap(errGo).With("url", poller.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

	default:
		return nil, errors.New("unknown scheme for the scene source").With("url", poller.url.String()).With("stack", stack.Trace().TrimRuntime())
	}

	if scene, err = model.ParseScene(body); err != nil {
		return nil, err.With("url", poller.url.String())
	}
	return scene, nil
}

func (poller *ScenePoller) sendScene() {
	scene, err := poller.fetch()
	if err != nil {
		select {
		case poller.errorC <- err:
		case <-time.After(500 * time.Millisecond):
			logger.Warn("could not report scene poll failure", "error", err.Error())
		}
		return
	}

	select {
	case poller.sceneC <- scene:
	case <-time.After(750 * time.Millisecond):
		logger.Warn("scene dropped", "url", poller.url.String())
	}
}

// Run polls the source once immediately and then every interval until quitC
// is closed
func (poller *ScenePoller) Run(quitC <-chan struct{}) {

	poller.sendScene()

	poll := time.NewTicker(poller.interval)
	defer poll.Stop()

	for {
		select {
		case <-poll.C:
			poller.sendScene()

		case <-quitC:
			return
		}
	}
}
