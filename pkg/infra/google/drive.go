package google

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/drive/v3"
)

const (
	driveFileFields = "id, name, mimeType, size"
	driveListFields = "nextPageToken, files(id, name, mimeType, size)"
	drivePageSize   = 1000
)

type driveClient struct {
	svc *drive.Service
}

// NewDriveClient wraps an authorized Drive service
func NewDriveClient(svc *drive.Service) interfaces.DriveClient {
	return &driveClient{svc: svc}
}

func toDriveFile(f *drive.File) *model.DriveFile {
	return &model.DriveFile{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
	}
}

func (c *driveClient) GetFile(ctx context.Context, fileID string) (*model.DriveFile, error) {
	f, err := c.svc.Files.Get(fileID).
		Fields(driveFileFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get drive file", goerr.V("file_id", fileID))
	}
	return toDriveFile(f), nil
}

func (c *driveClient) ListChildren(ctx context.Context, folderID string) ([]*model.DriveFile, error) {
	var children []*model.DriveFile

	err := c.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields(driveListFields).
		PageSize(drivePageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Pages(ctx, func(list *drive.FileList) error {
			for _, f := range list.Files {
				children = append(children, toDriveFile(f))
			}
			return nil
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list drive folder", goerr.V("folder_id", folderID))
	}

	return children, nil
}

func (c *driveClient) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to export drive file",
			goerr.V("file_id", fileID),
			goerr.V("mime_type", mimeType),
		)
	}
	return resp.Body, nil
}

func (c *driveClient) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download drive file", goerr.V("file_id", fileID))
	}
	return resp.Body, nil
}
