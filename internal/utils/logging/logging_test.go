package logging

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	l := Component("runtime")

	assert.Equal(t, "runtime", l.Data["component"])
	assert.Equal(t, prefix, l.Data["prefix"])
}

func TestSetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	hooks := logger.Logger.Hooks
	t.Cleanup(func() { logger.Logger.ReplaceHooks(hooks) })
	logger.Logger.ReplaceHooks(make(logrus.LevelHooks))

	SetFile(path)
	Component("test").Warn("written to file")

	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "written to file")
	assert.Contains(t, string(b), `"component":"test"`)
}
