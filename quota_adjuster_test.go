package console_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/libregate/go-console-api"
)

func TestQuotaAdjusterPreview(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := console.NewSelfEditSession(nil, nil, console.SessionCallbacks{})
	session.SetQuota("100")

	adjuster := session.Adjuster()
	adjuster.Open()
	require.True(t, adjuster.Visible())

	// Opening resets the delta to "0".
	current, delta, result := adjuster.Preview()
	require.Equal(t, 100, current)
	require.Equal(t, 0, delta)
	require.Equal(t, 100, result)

	adjuster.SetDelta("-50")
	current, delta, result = adjuster.Preview()
	require.Equal(t, 100, current)
	require.Equal(t, -50, delta)
	require.Equal(t, 50, result)

	// Invalid text counts as a zero delta; the preview never breaks.
	adjuster.SetDelta("abc")
	current, delta, result = adjuster.Preview()
	require.Equal(t, 100, current)
	require.Equal(t, 0, delta)
	require.Equal(t, 100, result)
}

func TestQuotaAdjusterCommit(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := console.NewSelfEditSession(nil, nil, console.SessionCallbacks{})
	session.SetQuota("100")

	adjuster := session.Adjuster()
	adjuster.Open()
	adjuster.SetDelta("25")
	adjuster.Commit()

	require.Equal(t, 125, session.QuotaValue())
	require.False(t, adjuster.Visible())

	// The unlimited flag is never touched by the adjuster.
	require.False(t, session.Draft().UnlimitedQuota)
}

// The delta is applied to the live draft quota, not to a value captured when
// the adjuster was opened, so it composes with manual edits.
func TestQuotaAdjusterComposesWithManualEdits(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := console.NewSelfEditSession(nil, nil, console.SessionCallbacks{})
	session.SetQuota("100")

	adjuster := session.Adjuster()
	adjuster.Open()
	adjuster.SetDelta("50")

	// A manual edit while the modal is open shifts the base of the delta.
	session.SetQuota("300")

	adjuster.Commit()
	require.Equal(t, 350, session.QuotaValue())
}

func TestQuotaAdjusterCancelLeavesQuotaUntouched(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := console.NewSelfEditSession(nil, nil, console.SessionCallbacks{})
	session.SetQuota("100")

	adjuster := session.Adjuster()
	adjuster.Open()
	adjuster.SetDelta("9999")
	adjuster.Cancel()

	require.False(t, adjuster.Visible())
	require.Equal(t, 100, session.QuotaValue())

	// Reopening starts from a clean delta.
	adjuster.Open()
	_, delta, _ := adjuster.Preview()
	require.Equal(t, 0, delta)
}

func TestQuotaAdjusterRepeatedApplication(t *testing.T) {
	defer goleak.VerifyNone(t)

	session := console.NewSelfEditSession(nil, nil, console.SessionCallbacks{})
	session.SetQuota("0")

	adjuster := session.Adjuster()

	for i := 0; i < 3; i++ {
		adjuster.Open()
		adjuster.SetDelta("10")
		adjuster.Commit()
	}

	require.Equal(t, 30, session.QuotaValue())
}
