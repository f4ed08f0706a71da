// Package study keeps what one user is studying: the last imported file of each mode,
// the flashcard deck or quiz built from it, and the status line describing the last operation.
package study

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/table"
)

type Mode string

const (
	ModeCards Mode = "cards"
	ModeQuiz  Mode = "qcm"
)

func (m Mode) Valid() bool { return m == ModeCards || m == ModeQuiz }

const (
	fallbackFileName = "your file"
	readFailedText   = "Failed to read the CSV file."
)

type Options struct {
	LivePreview bool
	MaxFileSize int64      // <= 0 disables the limit
	Source      qcm.Source // quiz shuffles; nil means math/rand
}

// Workspace holds both study modes of one session. It is not safe for concurrent use.
type Workspace struct {
	ID        string
	Owner     string
	Cards     *Cards
	Quiz      *Quiz
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewWorkspace(id, owner string, opts Options, now time.Time) *Workspace {
	return &Workspace{
		ID:        id,
		Owner:     owner,
		Cards:     newCards(opts),
		Quiz:      newQuiz(opts),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// source is the import state shared by both modes.
type source struct {
	fileName    string
	table       table.Table
	livePreview bool
	maxBytes    int64
	status      Status
}

func (s *source) FileName() string    { return s.fileName }
func (s *source) Table() table.Table  { return s.table }
func (s *source) LivePreview() bool   { return s.livePreview }
func (s *source) Status() Status      { return s.status }
func (s *source) hasRecords() bool    { return !s.table.IsEmpty() }
func (s *source) canRender() bool     { return !s.livePreview && s.hasRecords() }
func (s *source) setStatus(st Status) { s.status = st }
func (s *source) displayName() string {
	if s.fileName == "" {
		return fallbackFileName
	}
	return s.fileName
}

// read imports a file. On failure the previous file and table are kept.
func (s *source) read(ctx context.Context, name string, r io.Reader) (bool, error) {
	name = core.CleanFileName(name)
	if name == "" || r == nil {
		s.setStatus(info("Please select a CSV file.").withCode(CodeNoFile))
		return false, nil
	}
	tbl, err := table.Import(ctx, name, r, s.maxBytes)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = readFailedText
		}
		s.setStatus(Status{Message: msg, Variant: VariantError, Code: CodeImportFailed})
		return false, errors.Wrapf(err, "importing %q", name)
	}
	s.fileName = name
	s.table = tbl
	return true, nil
}

func (s *source) reset() {
	s.fileName = ""
	s.table = table.Table{}
}
