package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/domain"
)

var versionTag = regexp.MustCompile(`<version>([^<]+)</version>`)

// Manifest reads the version from the application record exported into
// the workspace at {workspace}/{sys_id}/sys_app_{sys_id}.xml.
type Manifest struct {
	workspace string
	sysID     string
	logger    *log.Logger
}

// NewManifest creates a Manifest source. A nil logger uses log.Default().
func NewManifest(workspace, sysID string, logger *log.Logger) *Manifest {
	if logger == nil {
		logger = log.Default()
	}
	return &Manifest{workspace: workspace, sysID: sysID, logger: logger}
}

// Path returns the manifest file location.
func (m *Manifest) Path() string {
	return filepath.Join(m.workspace, m.sysID, "sys_app_"+m.sysID+".xml")
}

// Current returns the first <version> element of the manifest. Unlike the
// table sources, a missing workspace, file or tag is an error.
func (m *Manifest) Current(_ context.Context) (string, bool, error) {
	if m.workspace == "" {
		return "", false, domain.ConfigError("workspace is not set: provide the workspace input or GITHUB_WORKSPACE")
	}
	m.logger.Info("Looking in " + filepath.Join(m.workspace, m.sysID))
	data, err := os.ReadFile(m.Path())
	if err != nil {
		return "", false, &domain.Error{
			Kind:    domain.KindVersionNotFound,
			Message: fmt.Sprintf("Application manifest %s could not be read", m.Path()),
			Err:     err,
		}
	}
	match := versionTag.FindSubmatch(data)
	if match == nil {
		return "", false, &domain.Error{
			Kind:    domain.KindVersionNotFound,
			Message: "Application version not found in " + m.Path(),
			Err:     domain.ErrVersionNotFound,
		}
	}
	return string(match[1]), true, nil
}
