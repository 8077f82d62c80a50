package interfaces

import (
	"context"

	"github.com/m-mizutani/classzip/pkg/domain/model"
	"google.golang.org/api/classroom/v1"
)

// AuthUseCase defines the session lifecycle
type AuthUseCase interface {
	// LoginURL returns the consent URL carrying state
	LoginURL(state string) string

	// Login exchanges an authorization code for a token
	Login(ctx context.Context, code string) (*model.Token, error)

	// Refresh returns a usable token. refreshed is true when a new token was issued
	Refresh(ctx context.Context, token *model.Token) (fresh *model.Token, refreshed bool, err error)

	// Logout revokes the token in the background; failures are only logged
	Logout(ctx context.Context, token *model.Token)
}

// ClassroomUseCase defines course listing and profile operations
type ClassroomUseCase interface {
	ListCourses(ctx context.Context, token *model.Token) ([]*classroom.Course, error)
	ListMaterials(ctx context.Context, token *model.Token, courseID string) ([]*model.CourseWorkMaterial, error)
	UserInfo(ctx context.Context, token *model.Token) (*model.UserInfo, error)
	ProfileImage(ctx context.Context, token *model.Token, id string) (*model.ProfileImage, error)
}

// ArchiveUseCase defines course archive download
type ArchiveUseCase interface {
	// Download streams the course archive into the writer returned by open.
	// open is not called when the course or its materials cannot be fetched.
	Download(ctx context.Context, token *model.Token, courseID string, open model.ArchiveOpener) error
}
