package obslog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CFdefense/ClassQL/internal/obslog"
)

func TestNew_QuietByDefault(t *testing.T) {
	log, err := obslog.New(false)
	require.NoError(t, err)
	require.NotNil(t, log)
	// A no-op logger must not panic on use.
	log.Debugw("stage", "name", "lex")
}

func TestNew_VerboseBuildsRealLogger(t *testing.T) {
	log, err := obslog.New(true)
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Debugw("stage", "name", "lex")
	_ = log.Sync() // stderr sync can legitimately fail on some platforms; not asserted
}
