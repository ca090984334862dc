// Package workspace resolves a topic to its on-disk layout (§3.1) and
// implements the Stage Runner contract (§4.1): existence checks,
// --force override, atomic write-to-temp-then-rename, and the
// StageResult every stage returns.
//
// Grounded on core/job.Job's Start(ctx)/Stop() lifecycle shape for the
// stage-as-unit-of-work pattern.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// Workspace is a single topic's directory tree under the configured
// workspace root.
type Workspace struct {
	Root  string
	Topic string
	Slug  string
}

// Resolve computes the workspace for topic under root, creating the
// root directory (but not the topic subtree — that happens lazily as
// stages write into it) if it does not already exist.
func Resolve(root, topic string) (*Workspace, error) {
	slug := textnorm.Slug(topic)
	if slug == "" {
		return nil, xerrors.New(xerrors.ConfigError, "topic normalizes to an empty slug")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ConfigError, "create workspace root")
	}
	return &Workspace{Root: root, Topic: topic, Slug: slug}, nil
}

// Dir returns the absolute path of the workspace's topic directory.
func (w *Workspace) Dir() string {
	return filepath.Join(w.Root, "workspaces", w.Slug)
}

func (w *Workspace) path(parts ...string) string {
	return filepath.Join(append([]string{w.Dir()}, parts...)...)
}

func (w *Workspace) SeedDir() string            { return w.path("seed") }
func (w *Workspace) SeedQueriesDir() string     { return w.path("seed", "queries") }
func (w *Workspace) SeedDownloadsDir() string   { return w.path("seed", "downloads") }
func (w *Workspace) SeedArxivRawDir() string    { return w.path("seed", "downloads", "arxiv_raw") }
func (w *Workspace) SeedTAFilteredDir() string  { return w.path("seed", "downloads", "ta_filtered") }
func (w *Workspace) SeedFiltersDir() string     { return w.path("seed", "filters") }
func (w *Workspace) KeywordsDir() string        { return w.path("keywords") }
func (w *Workspace) HarvestDir() string         { return w.path("harvest") }
func (w *Workspace) HarvestOtherDir() string    { return w.path("harvest", "other_sources") }
func (w *Workspace) CriteriaDir() string        { return w.path("criteria") }
func (w *Workspace) ReviewDir() string          { return w.path("review") }
func (w *Workspace) SnowballRoundsDir() string  { return w.path("snowball_rounds") }
func (w *Workspace) RoundDir(n int) string {
	return filepath.Join(w.SnowballRoundsDir(), fmt.Sprintf("round_%02d", n))
}

// Exists reports whether a primary output path already exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteJSON atomically writes v as two-space-indented JSON to path:
// it writes to path+".tmp" in the same directory, then renames over
// path, so readers never observe a partially written file.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "create output directory")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return xerrors.Wrap(err, xerrors.ParseError, "marshal output")
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to path via write-to-temp-then-rename,
// the durability rule spec.md requires for every stage output and for
// SIGINT-safe partial writes.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "write temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return xerrors.Wrap(err, xerrors.ConfigError, "rename temp file into place")
	}
	return nil
}

// ReadJSON reads and unmarshals the JSON document at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return xerrors.Wrapf(err, xerrors.UpstreamMissing, "required output absent: %s", path)
		}
		return xerrors.Wrap(err, xerrors.ConfigError, "read file")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return xerrors.Wrapf(err, xerrors.ParseError, "unmarshal %s", path)
	}
	return nil
}

// RequireUpstream fails fast with UpstreamMissing if path does not exist,
// per §4.1's "downstream stages fail fast if required upstream outputs
// are absent."
func RequireUpstream(path string) error {
	if !Exists(path) {
		return xerrors.Newf(xerrors.UpstreamMissing, "required upstream output absent: %s", path)
	}
	return nil
}

// Guard implements the Stage Runner's skip-if-exists rule: if primaryOutput
// exists and force is false, it returns a skipped StageResult and ok=false
// so the stage function returns immediately without doing any work.
func Guard(stage, primaryOutput string, force bool) (result model.StageResult, shouldRun bool) {
	if !force && Exists(primaryOutput) {
		return model.Skipped(stage, primaryOutput), false
	}
	return model.StageResult{}, true
}
