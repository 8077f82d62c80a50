package usecase

import (
	"context"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/classroom/v1"
)

type classroomUseCase struct {
	factory interfaces.GoogleClientFactory
}

// NewClassroom creates a new instance of ClassroomUseCase
func NewClassroom(factory interfaces.GoogleClientFactory) interfaces.ClassroomUseCase {
	return &classroomUseCase{factory: factory}
}

func (uc *classroomUseCase) clients(ctx context.Context, token *model.Token) (*interfaces.GoogleClients, error) {
	clients, err := uc.factory.New(ctx, token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create google clients")
	}
	return clients, nil
}

func (uc *classroomUseCase) ListCourses(ctx context.Context, token *model.Token) ([]*classroom.Course, error) {
	clients, err := uc.clients(ctx, token)
	if err != nil {
		return nil, err
	}

	courses, err := clients.Classroom.ListCourses(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list courses")
	}
	if courses == nil {
		courses = []*classroom.Course{}
	}
	return courses, nil
}

func (uc *classroomUseCase) ListMaterials(ctx context.Context, token *model.Token, courseID string) ([]*model.CourseWorkMaterial, error) {
	clients, err := uc.clients(ctx, token)
	if err != nil {
		return nil, err
	}

	materials, err := clients.Classroom.ListMaterials(ctx, courseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list course materials", goerr.V("course_id", courseID))
	}
	if materials == nil {
		materials = []*model.CourseWorkMaterial{}
	}
	return materials, nil
}

// UserInfo returns the profile with the picture replaced by the same-origin
// proxy URL so the browser never talks to the avatar host directly.
func (uc *classroomUseCase) UserInfo(ctx context.Context, token *model.Token) (*model.UserInfo, error) {
	clients, err := uc.clients(ctx, token)
	if err != nil {
		return nil, err
	}

	info, err := clients.Profile.GetUserInfo(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info")
	}

	return &model.UserInfo{
		Name:    info.Name,
		Email:   info.Email,
		Picture: model.ProfileImageURL(info.Picture),
	}, nil
}

func (uc *classroomUseCase) ProfileImage(ctx context.Context, token *model.Token, id string) (*model.ProfileImage, error) {
	imageURL, err := model.DecodeProfileImageID(id)
	if err != nil {
		return nil, err
	}

	clients, err := uc.clients(ctx, token)
	if err != nil {
		return nil, err
	}

	img, err := clients.Profile.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch profile image")
	}
	return img, nil
}
