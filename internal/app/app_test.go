package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp_ValidatesDependencyGraph(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("DOWNLOADS_DIR", t.TempDir())

	require.NoError(t, fx.ValidateApp(CreateApp()))
}
