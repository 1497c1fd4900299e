package dirmerge

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"
)

// MergeOptions describes how a merge should be performed. The zero value is
// ready to use and operates on the host filesystem.
type MergeOptions struct {
	// Filesystem holds both trees. It defaults to the host filesystem.
	Filesystem billy.Filesystem

	// Logger receives one debug entry per disposition and an info summary
	// per run. It defaults to a no-op logger.
	Logger *zap.Logger

	// DryRun computes dispositions and conflicts without mutating either
	// tree.
	DryRun bool
}

// Validate validates the fields and sets the default values.
func (o *MergeOptions) Validate() error {
	if o.Filesystem == nil {
		o.Filesystem = osfs.New("/")
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return nil
}
