package usecase

import (
	"archive/zip"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ErrArchiveSink means the archive could not be written to its destination,
// typically because the HTTP client went away. Traversal stops on it.
var ErrArchiveSink = goerr.New("failed to write archive stream")

// sinkWriter remembers the first write error of the destination so that
// destination failures can be told apart from source read failures.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}

func (s *sinkWriter) Flush() error {
	if s.err != nil {
		return s.err
	}

	switch f := s.w.(type) {
	case interface{ Flush() error }:
		if err := f.Flush(); err != nil {
			s.err = err
		}
	case interface{ Flush() }:
		f.Flush()
	}
	return s.err
}

// courseArchive is the in-flight zip of one download request. It is not
// safe for concurrent use; traversal is sequential and depth-first.
type courseArchive struct {
	drive     interfaces.DriveClient
	sink      *sinkWriter
	zw        *zip.Writer
	ledger    *model.Ledger
	paths     map[string]struct{}
	ancestors map[string]struct{}
	modified  time.Time
}

func newCourseArchive(drive interfaces.DriveClient, w io.Writer, modified time.Time) *courseArchive {
	sink := &sinkWriter{w: w}
	zw := zip.NewWriter(sink)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	return &courseArchive{
		drive:     drive,
		sink:      sink,
		zw:        zw,
		ledger:    model.NewLedger(),
		paths:     make(map[string]struct{}),
		ancestors: make(map[string]struct{}),
		modified:  modified,
	}
}

// walkFolder adds every file below folderID under parentPath/<folder name>
// and returns the sum of their sizes. Drive errors are logged and count as
// zero bytes; only a failing destination is returned as error.
func (a *courseArchive) walkFolder(ctx context.Context, folderID, parentPath string) (int64, error) {
	logger := ctxlog.From(ctx)

	if err := ctx.Err(); err != nil {
		return 0, goerr.Wrap(err, "archive traversal cancelled")
	}

	// ancestors holds the folders on the current recursion path only, so a
	// folder shared by two parents is walked under both.
	if _, ok := a.ancestors[folderID]; ok {
		logger.Warn("Folder cycle detected, skipping", "folder_id", folderID, "parent", parentPath)
		return 0, nil
	}
	a.ancestors[folderID] = struct{}{}
	defer delete(a.ancestors, folderID)

	folder, err := a.drive.GetFile(ctx, folderID)
	if err != nil {
		logger.Error("Failed to get folder", "folder_id", folderID, "error", err)
		return 0, nil
	}
	folderPath := model.JoinPath(parentPath, folder.Name)

	children, err := a.drive.ListChildren(ctx, folderID)
	if err != nil {
		logger.Error("Failed to list folder", "folder_id", folderID, "path", folderPath, "error", err)
		return 0, nil
	}

	var total int64
	for _, child := range children {
		var size int64
		if child.IsFolder() {
			size, err = a.walkFolder(ctx, child.ID, folderPath)
		} else {
			size, err = a.resolveFile(ctx, child.ID, folderPath)
		}
		if err != nil {
			return total, err
		}
		total += size
	}

	return total, nil
}

// resolveFile streams one Drive file into the archive under parentPath.
// Native Google files are exported; the returned size is then the fixed
// estimate. The size is only returned after the entry has been written and
// flushed to the destination.
func (a *courseArchive) resolveFile(ctx context.Context, fileID, parentPath string) (int64, error) {
	logger := ctxlog.From(ctx)

	if err := ctx.Err(); err != nil {
		return 0, goerr.Wrap(err, "archive traversal cancelled")
	}

	file, err := a.drive.GetFile(ctx, fileID)
	if err != nil {
		logger.Error("Failed to get file", "file_id", fileID, "error", err)
		return 0, nil
	}

	if file.IsFolder() {
		return a.walkFolder(ctx, fileID, parentPath)
	}

	var (
		body io.ReadCloser
		name string
		size int64
	)

	if file.IsNative() {
		format := model.ExportFormatFor(file.MimeType)
		body, err = a.drive.Export(ctx, fileID, format.MimeType)
		name = file.Name + "." + format.Extension
		size = model.ExportSizeEstimate
	} else {
		body, err = a.drive.Download(ctx, fileID)
		name = file.Name
		size = file.Size
	}
	if err != nil {
		logger.Error("Failed to fetch file content", "file_id", fileID, "mime_type", file.MimeType, "error", err)
		return 0, nil
	}
	defer body.Close()

	entryPath := a.uniquePath(model.JoinPath(parentPath, name))
	if err := a.appendEntry(entryPath, body); err != nil {
		if errors.Is(err, ErrArchiveSink) {
			return 0, err
		}
		logger.Error("Failed to read file content, entry is truncated",
			"file_id", fileID,
			"path", entryPath,
			"error", err,
		)
		a.ledger.MarkIncomplete(entryPath)
		return 0, nil
	}

	a.ledger.Add(entryPath, size)
	logger.Debug("Added file to archive", "file_id", fileID, "path", entryPath, "size", size)

	return size, nil
}

// appendEntry copies r into a new entry and pushes the buffered archive
// bytes to the destination.
func (a *courseArchive) appendEntry(name string, r io.Reader) error {
	w, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.modified,
	})
	if err != nil {
		return a.classify(err)
	}

	if _, err := io.Copy(w, r); err != nil {
		return a.classify(err)
	}

	if err := a.zw.Flush(); err != nil {
		return a.classify(err)
	}
	if err := a.sink.Flush(); err != nil {
		return a.classify(err)
	}

	return nil
}

func (a *courseArchive) classify(err error) error {
	if a.sink.err != nil {
		return goerr.Wrap(ErrArchiveSink, a.sink.err.Error())
	}
	return err
}

// uniquePath returns p, or p with a numeric suffix before the extension when
// p is already taken: a/b.pdf, a/b_2.pdf, a/b_3.pdf.
func (a *courseArchive) uniquePath(p string) string {
	for n := 1; ; n++ {
		candidate := p
		if n > 1 {
			ext := path.Ext(p)
			candidate = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(p, ext), n, ext)
		}
		if _, ok := a.paths[candidate]; !ok {
			a.paths[candidate] = struct{}{}
			return candidate
		}
	}
}

// finish appends the summary entry and closes the zip stream
func (a *courseArchive) finish(courseName string) error {
	summary := a.ledger.Summary(courseName, a.modified)
	name := a.uniquePath(model.SummaryFileName(courseName, a.modified))

	if err := a.appendEntry(name, strings.NewReader(summary)); err != nil {
		return err
	}

	if err := a.zw.Close(); err != nil {
		return a.classify(err)
	}
	return a.sink.Flush()
}
