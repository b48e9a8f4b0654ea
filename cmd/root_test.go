package cmd

import (
	"reflect"
	"testing"

	globalConfig "ytmcp/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBareInvocationSelectsTransport(t *testing.T) {
	require.NotNil(t, rootCmd.Run)

	httpCfg := &globalConfig.Config{}
	httpCfg.App.HTTPMode = true
	assert.Equal(t,
		reflect.ValueOf(restServer).Pointer(),
		reflect.ValueOf(transportFor(httpCfg)).Pointer())

	stdioCfg := &globalConfig.Config{}
	assert.Equal(t,
		reflect.ValueOf(mcpServer).Pointer(),
		reflect.ValueOf(transportFor(stdioCfg)).Pointer())
}
