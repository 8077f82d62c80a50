package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/classzip/pkg/domain/model"
	"google.golang.org/api/classroom/v1"
)

// DriveClient defines the Drive operations used to build course archives
type DriveClient interface {
	// GetFile fetches id, name, mimeType and size of a file or folder
	GetFile(ctx context.Context, fileID string) (*model.DriveFile, error)

	// ListChildren lists all non-trashed children of a folder, across pages
	ListChildren(ctx context.Context, folderID string) ([]*model.DriveFile, error)

	// Export streams a native Google file converted to mimeType
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)

	// Download streams the raw content of a binary file
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// ClassroomClient defines the Classroom operations
type ClassroomClient interface {
	ListCourses(ctx context.Context) ([]*classroom.Course, error)
	GetCourse(ctx context.Context, courseID string) (*classroom.Course, error)
	ListMaterials(ctx context.Context, courseID string) ([]*model.CourseWorkMaterial, error)
}

// ProfileClient fetches the signed-in user's profile and avatar
type ProfileClient interface {
	GetUserInfo(ctx context.Context) (*model.UserInfo, error)
	FetchImage(ctx context.Context, imageURL string) (*model.ProfileImage, error)
}

// GoogleClients bundles the API clients bound to one user's credentials.
// A value is built per request and never shared between requests.
type GoogleClients struct {
	Drive     DriveClient
	Classroom ClassroomClient
	Profile   ProfileClient
}

// GoogleClientFactory builds request-scoped clients from a session token
type GoogleClientFactory interface {
	New(ctx context.Context, token *model.Token) (*GoogleClients, error)
}

// Authenticator wraps the Google OAuth2 endpoints
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Token, error)
	Revoke(ctx context.Context, accessToken string) error
}
