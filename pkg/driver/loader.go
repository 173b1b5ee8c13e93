package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Source is a loaded source file. Display is what diagnostics print as the
// file name; Revision is the commit a git source was read at.
type Source struct {
	Display  string
	Data     []byte
	Revision string
}

// LoadSource reads the file spec points at. Relative local paths resolve
// against baseDir.
func LoadSource(ctx context.Context, spec SourceSpec, baseDir string) (*Source, error) {
	if spec.Git != nil {
		return loadGitSource(ctx, spec.Git)
	}
	if spec.Path == "" {
		return nil, errors.New("source: no path given")
	}
	return LoadFile(resolvePath(spec.Path, baseDir))
}

// LoadFile reads a local source file.
func LoadFile(file string) (*Source, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "source: read %s", file)
	}
	return &Source{Display: file, Data: data}, nil
}

func resolvePath(file, baseDir string) string {
	if filepath.IsAbs(file) || baseDir == "" {
		return file
	}
	return filepath.Join(baseDir, file)
}

// loadGitSource clones the repository into memory, checks out the requested
// revision and reads the file from the worktree.
func loadGitSource(ctx context.Context, spec *GitSpec) (*Source, error) {
	revision, descriptor := gitRevision(spec)
	if glog.V(3) {
		glog.Infof("cloning %s at %s", spec.URL, descriptor)
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), &git.CloneOptions{
		URL: spec.URL,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "git clone %s", spec.URL)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve revision %s", descriptor)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "git worktree")
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		return nil, errors.Wrapf(err, "git checkout %s", descriptor)
	}

	data, err := util.ReadFile(worktree.Filesystem, spec.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s at %s", spec.Path, descriptor)
	}
	return &Source{
		Display:  gitDisplayName(spec, hash.String()),
		Data:     data,
		Revision: hash.String(),
	}, nil
}

func gitRevision(spec *GitSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch
	}
	return plumbing.Revision("HEAD"), "HEAD"
}

func gitDisplayName(spec *GitSpec, commit string) string {
	short := commit
	if len(short) > 12 {
		short = short[:12]
	}
	return spec.URL + "@" + short + ":" + spec.Path
}
