package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ArchiveOption is a functional option for the archive use case
type ArchiveOption func(*archiveUseCase)

// WithArchiveClock overrides the clock used for timestamps in the archive
func WithArchiveClock(now func() time.Time) ArchiveOption {
	return func(uc *archiveUseCase) {
		uc.now = now
	}
}

type archiveUseCase struct {
	factory interfaces.GoogleClientFactory
	now     func() time.Time
}

// NewArchive creates a new instance of ArchiveUseCase
func NewArchive(factory interfaces.GoogleClientFactory, opts ...ArchiveOption) interfaces.ArchiveUseCase {
	uc := &archiveUseCase{
		factory: factory,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Download fetches the course and its materials, then streams every Drive
// attachment into one zip followed by the summary entry. Errors before the
// stream is opened leave the response untouched; later errors mean the
// stream was cut and can only be logged by the caller.
func (uc *archiveUseCase) Download(ctx context.Context, token *model.Token, courseID string, open model.ArchiveOpener) error {
	logger := ctxlog.From(ctx)

	clients, err := uc.factory.New(ctx, token)
	if err != nil {
		return goerr.Wrap(err, "failed to create google clients")
	}

	course, err := clients.Classroom.GetCourse(ctx, courseID)
	if err != nil {
		return goerr.Wrap(err, "failed to get course", goerr.V("course_id", courseID))
	}
	courseName := model.CourseName(course.Name, courseID)

	list, err := clients.Classroom.ListMaterials(ctx, courseID)
	if err != nil {
		return goerr.Wrap(err, "failed to list course materials", goerr.V("course_id", courseID))
	}
	materials := model.NewMaterials(list)

	now := uc.now()
	filename := model.ArchiveFileName(courseName)
	archive := newCourseArchive(clients.Drive, open(filename), now)

	logger.Info("Building course archive",
		"course_id", courseID,
		"course_name", courseName,
		"materials", len(materials),
		"filename", filename,
	)

	var total int64
	for _, material := range materials {
		topic := model.PathSegment(material.Topic)

		for _, attachment := range material.Attachments {
			var size int64
			var err error

			switch a := attachment.(type) {
			case model.DriveFileAttachment:
				size, err = archive.resolveFile(ctx, a.FileID, topic)
			case model.DriveFolderAttachment:
				size, err = archive.walkFolder(ctx, a.FolderID, topic)
			}
			if err != nil {
				return goerr.Wrap(err, "course archive stream aborted",
					goerr.V("course_id", courseID),
					goerr.V("material_id", material.ID),
				)
			}
			total += size
		}
	}

	if err := archive.finish(courseName); err != nil {
		return goerr.Wrap(err, "failed to finalize course archive", goerr.V("course_id", courseID))
	}

	logger.Info("Course archive completed",
		"course_id", courseID,
		"entries", archive.ledger.Len(),
		"total_size", model.FormatBytes(total),
	)

	return nil
}
