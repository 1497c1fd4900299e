package dirmerge

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMergeOptionsValidateDefaults(t *testing.T) {
	o := &MergeOptions{}
	require.NoError(t, o.Validate())

	assert.Equal(t, osfs.New("/"), o.Filesystem)
	assert.NotNil(t, o.Logger)
	assert.False(t, o.DryRun)
}

func TestMergeOptionsValidateKeepsValues(t *testing.T) {
	fs := memfs.New()
	logger := zap.NewNop()

	o := &MergeOptions{Filesystem: fs, Logger: logger, DryRun: true}
	require.NoError(t, o.Validate())

	assert.Same(t, fs, o.Filesystem)
	assert.Same(t, logger, o.Logger)
	assert.True(t, o.DryRun)
}
