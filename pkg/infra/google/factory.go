package google

import (
	"context"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Factory builds per-request Google API clients from the caller's token.
// It holds no credentials of its own.
type Factory struct {
	opts []option.ClientOption
}

// NewFactory creates a Factory. opts are appended to every service (tests use
// option.WithEndpoint to point at a fake server).
func NewFactory(opts ...option.ClientOption) *Factory {
	return &Factory{opts: opts}
}

// New binds the Drive, Classroom and profile clients to token
func (f *Factory) New(ctx context.Context, token *model.Token) (*interfaces.GoogleClients, error) {
	if token == nil || token.AccessToken == "" {
		return nil, goerr.New("no access token")
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token.OAuth2()))
	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, f.opts...)

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create drive service")
	}

	classroomSvc, err := classroom.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create classroom service")
	}

	profileSvc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create oauth2 service")
	}

	return &interfaces.GoogleClients{
		Drive:     NewDriveClient(driveSvc),
		Classroom: NewClassroomClient(classroomSvc, httpClient),
		Profile:   NewProfileClient(profileSvc, httpClient),
	}, nil
}
