package console

import (
	"strconv"
	"strings"
	"sync"
)

// QuotaAdjuster is the modal sub-workflow that applies a signed delta to the
// live draft quota of its session. It never talks to the server, and it reads
// the draft quota at preview and commit time rather than caching it, so it
// composes with manual quota edits made while it is open.
type QuotaAdjuster struct {
	session *UserEditSession

	lock    sync.Mutex
	visible bool
	delta   string
}

// Open makes the modal visible and resets the delta text to "0".
func (a *QuotaAdjuster) Open() {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.visible = true
	a.delta = "0"
}

// Visible reports whether the modal is open.
func (a *QuotaAdjuster) Visible() bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.visible
}

// SetDelta stores the raw delta text. Parsing is deferred, so partially typed
// or invalid input never breaks the preview.
func (a *QuotaAdjuster) SetDelta(text string) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.delta = text
}

// Preview returns the current draft quota, the parsed delta and their sum.
// The quota is re-read from the live draft on every call.
func (a *QuotaAdjuster) Preview() (current, delta, result int) {
	a.lock.Lock()
	text := a.delta
	a.lock.Unlock()

	current = a.session.QuotaValue()
	delta = parseQuota(text)

	return current, delta, current + delta
}

// Commit recomputes the sum against the live draft quota and writes it back
// into the draft, then closes the modal. The unlimited flag is untouched.
func (a *QuotaAdjuster) Commit() {
	a.lock.Lock()
	text := a.delta
	a.visible = false
	a.delta = "0"
	a.lock.Unlock()

	a.session.SetQuota(strconv.Itoa(a.session.QuotaValue() + parseQuota(text)))
}

// Cancel closes the modal and discards the delta text.
func (a *QuotaAdjuster) Cancel() {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.visible = false
	a.delta = "0"
}

// parseQuota coerces quota or delta text to an integer. Empty or unparseable
// text counts as zero; coercion never fails.
func parseQuota(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}

	return n
}
