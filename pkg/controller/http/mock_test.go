package http_test

import (
	"context"
	"io"
	"strings"
	"testing"

	controller "github.com/m-mizutani/classzip/pkg/controller/http"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/classroom/v1"
)

var errMock = goerr.New("mock error")

type mockAuthUC struct {
	loginToken *model.Token
	refreshFn  func(token *model.Token) (*model.Token, bool, error)
	loggedOut  *model.Token
}

func (m *mockAuthUC) LoginURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (m *mockAuthUC) Login(ctx context.Context, code string) (*model.Token, error) {
	if code == "" || m.loginToken == nil {
		return nil, errMock
	}
	return m.loginToken, nil
}

func (m *mockAuthUC) Refresh(ctx context.Context, token *model.Token) (*model.Token, bool, error) {
	if m.refreshFn != nil {
		return m.refreshFn(token)
	}
	return token, false, nil
}

func (m *mockAuthUC) Logout(ctx context.Context, token *model.Token) {
	m.loggedOut = token
}

type mockClassroomUC struct {
	courses   []*classroom.Course
	materials []*model.CourseWorkMaterial
	info      *model.UserInfo
	err       error
	token     *model.Token
}

func (m *mockClassroomUC) ListCourses(ctx context.Context, token *model.Token) ([]*classroom.Course, error) {
	m.token = token
	return m.courses, m.err
}

func (m *mockClassroomUC) ListMaterials(ctx context.Context, token *model.Token, courseID string) ([]*model.CourseWorkMaterial, error) {
	return m.materials, m.err
}

func (m *mockClassroomUC) UserInfo(ctx context.Context, token *model.Token) (*model.UserInfo, error) {
	return m.info, m.err
}

func (m *mockClassroomUC) ProfileImage(ctx context.Context, token *model.Token, id string) (*model.ProfileImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.ProfileImage{
		Body:        io.NopCloser(strings.NewReader("avatar:" + id)),
		ContentType: "image/png",
	}, nil
}

type mockArchiveUC struct {
	err     error
	opened  bool
	payload string
}

func (m *mockArchiveUC) Download(ctx context.Context, token *model.Token, courseID string, open model.ArchiveOpener) error {
	if m.err != nil && !m.opened {
		return m.err
	}
	w := open(courseID + "_materials.zip")
	_, _ = io.WriteString(w, m.payload)
	return m.err
}

type testServer struct {
	auth      *mockAuthUC
	classroom *mockClassroomUC
	archive   *mockArchiveUC
	server    *controller.Server
}

func newTestServer(t *testing.T, opts ...controller.Option) *testServer {
	t.Helper()
	ts := &testServer{
		auth:      &mockAuthUC{},
		classroom: &mockClassroomUC{},
		archive:   &mockArchiveUC{},
	}

	server, err := controller.NewServer(context.Background(), ts.auth, ts.classroom, ts.archive, opts...)
	gt.NoError(t, err)
	ts.server = server
	return ts
}

func tokenCookie(t *testing.T, token *model.Token) string {
	t.Helper()
	value, err := token.Encode()
	gt.NoError(t, err)
	return "token=" + value
}

func controllerSecure() controller.Option {
	return controller.WithSecureCookie(true)
}
