package server

import (
	"net/http"
	"net/url"

	"golang.org/x/exp/slices"
)

// Call describes one request/response pair handled by the server.
type Call struct {
	URL    *url.URL
	Method string
	Status int

	RequestHeader http.Header
	RequestBody   []byte

	ResponseHeader http.Header
	ResponseBody   []byte
}

type callWatcher struct {
	fn    func(Call)
	paths []string
}

func newCallWatcher(fn func(Call), paths ...string) callWatcher {
	return callWatcher{
		fn:    fn,
		paths: paths,
	}
}

// isWatching reports whether the watcher wants calls to the given path.
// A watcher with no paths watches everything.
func (watcher *callWatcher) isWatching(path string) bool {
	if len(watcher.paths) == 0 {
		return true
	}

	return slices.Contains(watcher.paths, path)
}

func (watcher *callWatcher) publish(call Call) {
	watcher.fn(call)
}
