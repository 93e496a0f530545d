// Package fs provides file-based storage for rendered issues.
package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/magdoc"
	"gopkg.in/yaml.v3"
)

// IssueFile is the name of the Markdown file holding a rendered issue.
const IssueFile = "issue.md"

// WorldThisWeek heads the digests and the cartoon at the front of an issue.
const WorldThisWeek = "The world this week"

// IssueStore writes a rendered issue and its images with atomic update
// semantics. Files are written to baseDir/name.tmp, then moved to
// baseDir/name on Commit.
type IssueStore struct {
	baseDir string
	name    string
	images  *ImageStore
}

// NewIssueStore creates a new IssueStore. name must be a plain directory
// name.
func NewIssueStore(baseDir, name string) (*IssueStore, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return nil, magdoc.Errorf(magdoc.EINVALID, "invalid issue directory name: %q", name)
	}
	s := &IssueStore{
		baseDir: baseDir,
		name:    name,
	}
	s.images = NewImageStore(s.tempDir())
	return s, nil
}

func (s *IssueStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Dir returns the directory the issue ends up in after Commit.
func (s *IssueStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Images returns the store for the issue's images.
func (s *IssueStore) Images() *ImageStore {
	return s.images
}

// WriteIssue renders issue into the issue file using r, and writes its
// table of contents. Images are resolved against the store's images.
func (s *IssueStore) WriteIssue(issue *magdoc.Issue, r magdoc.Renderer) error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.tempDir(), IssueFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteIssue(w, issue, r, s.images); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return s.writeTOC(issue)
}

func (s *IssueStore) writeTOC(issue *magdoc.Issue) error {
	f, err := os.Create(filepath.Join(s.tempDir(), TOCFile))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteTOC(f, issue); err != nil {
		return err
	}
	return f.Close()
}

// Commit replaces any previous copy of the issue with the one written.
func (s *IssueStore) Commit() error {
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.Dir())
}

// Abort discards everything written so far.
func (s *IssueStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

type frontmatter struct {
	Edition  string   `yaml:"edition"`
	Articles int      `yaml:"articles"`
	Failed   []string `yaml:"failed,omitempty"`
}

// WriteIssue writes a YAML frontmatter block followed by every article of
// issue in reading order. The digests and cartoon, the letters, each
// section and the obituary start with a top-level heading.
func WriteIssue(w io.Writer, issue *magdoc.Issue, r magdoc.Renderer, images magdoc.ImageResolver) error {
	fm := frontmatter{Edition: issue.Date, Articles: len(issue.Articles())}
	for _, f := range issue.Failures {
		fm.Failed = append(fm.Failed, f.URL)
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}
	if _, err := fmt.Fprintf(w, "---\n%s---\n\n", head); err != nil {
		return err
	}

	render := func(label string, a magdoc.Article) error {
		if err := r.RenderArticle(w, label, a, images); err != nil {
			return fmt.Errorf("render %s: %w", a.SourceURL(), err)
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	heading := func(name string) error {
		_, err := fmt.Fprintf(w, "# %s\n\n", name)
		return err
	}

	if issue.PoliticsThisWeek != nil || issue.BusinessThisWeek != nil || issue.Cartoon != nil {
		if err := heading(WorldThisWeek); err != nil {
			return err
		}
	}
	if issue.PoliticsThisWeek != nil {
		if err := render(magdoc.PoliticsLabel, issue.PoliticsThisWeek); err != nil {
			return err
		}
	}
	if issue.BusinessThisWeek != nil {
		if err := render(magdoc.BusinessLabel, issue.BusinessThisWeek); err != nil {
			return err
		}
	}
	if issue.Cartoon != nil {
		if err := render(magdoc.CartoonLabel, issue.Cartoon); err != nil {
			return err
		}
	}
	if issue.Letters != nil {
		if err := heading(magdoc.LettersTitle); err != nil {
			return err
		}
		if err := render("", issue.Letters); err != nil {
			return err
		}
	}
	for _, sec := range issue.Sections {
		if err := heading(sec.Name); err != nil {
			return err
		}
		for _, a := range sec.Articles {
			if err := render(sec.Name, a); err != nil {
				return err
			}
		}
	}
	if issue.Obituary != nil {
		if err := heading(magdoc.ObituaryLabel); err != nil {
			return err
		}
		if err := render(magdoc.ObituaryLabel, issue.Obituary); err != nil {
			return err
		}
	}
	return nil
}
