package leave

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// workspace is a temporary directory owned by one export run.
type workspace struct {
	root      string
	photosDir string
}

func acquireWorkspace(baseDir, photosDirName string) (*workspace, error) {
	root, err := os.MkdirTemp(baseDir, "qingjia-export-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	photosDir := filepath.Join(root, photosDirName)
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		_ = os.RemoveAll(root)
		return nil, fmt.Errorf("create photos directory: %w", err)
	}

	return &workspace{root: root, photosDir: photosDir}, nil
}

func (w *workspace) path(name string) string {
	return filepath.Join(w.root, name)
}

// release removes the workspace. Failures are logged, never returned.
func (w *workspace) release(logger *logrus.Logger) {
	if err := os.RemoveAll(w.root); err != nil {
		logger.WithError(err).WithField("workspace", w.root).Error("failed to remove export workspace")
		return
	}

	logger.WithField("workspace", w.root).Debug("export workspace removed")
}
