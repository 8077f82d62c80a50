package usecase_test

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/classroom/v1"
)

var errMock = goerr.New("mock error")

// mockDrive serves an in-memory Drive tree
type mockDrive struct {
	files    map[string]*model.DriveFile
	children map[string][]string
	contents map[string]string
	fail     map[string]bool

	mu       sync.Mutex
	exported map[string]string
}

func newMockDrive() *mockDrive {
	return &mockDrive{
		files:    make(map[string]*model.DriveFile),
		children: make(map[string][]string),
		contents: make(map[string]string),
		fail:     make(map[string]bool),
		exported: make(map[string]string),
	}
}

func (m *mockDrive) addFolder(id, name string, children ...string) {
	m.files[id] = &model.DriveFile{ID: id, Name: name, MimeType: model.MimeTypeFolder}
	m.children[id] = children
}

func (m *mockDrive) addFile(id, name, mimeType, content string) {
	m.files[id] = &model.DriveFile{ID: id, Name: name, MimeType: mimeType, Size: int64(len(content))}
	m.contents[id] = content
}

func (m *mockDrive) GetFile(ctx context.Context, fileID string) (*model.DriveFile, error) {
	if m.fail[fileID] {
		return nil, errMock
	}
	f, ok := m.files[fileID]
	if !ok {
		return nil, goerr.New("file not found", goerr.V("file_id", fileID))
	}
	return f, nil
}

func (m *mockDrive) ListChildren(ctx context.Context, folderID string) ([]*model.DriveFile, error) {
	if m.fail["list:"+folderID] {
		return nil, errMock
	}
	var result []*model.DriveFile
	for _, id := range m.children[folderID] {
		result = append(result, m.files[id])
	}
	return result, nil
}

func (m *mockDrive) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if m.fail["content:"+fileID] {
		return nil, errMock
	}
	m.mu.Lock()
	m.exported[fileID] = mimeType
	m.mu.Unlock()
	return io.NopCloser(strings.NewReader(m.contents[fileID])), nil
}

func (m *mockDrive) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if m.fail["content:"+fileID] {
		return nil, errMock
	}
	if m.fail["read:"+fileID] {
		return io.NopCloser(io.MultiReader(strings.NewReader(m.contents[fileID]), failingReader{})), nil
	}
	return io.NopCloser(strings.NewReader(m.contents[fileID])), nil
}

// failingReader simulates a connection dropped mid-download
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errMock
}

type mockClassroom struct {
	course       *classroom.Course
	courseErr    error
	courses      []*classroom.Course
	materials    []*model.CourseWorkMaterial
	materialsErr error
}

func (m *mockClassroom) ListCourses(ctx context.Context) ([]*classroom.Course, error) {
	return m.courses, m.courseErr
}

func (m *mockClassroom) GetCourse(ctx context.Context, courseID string) (*classroom.Course, error) {
	if m.courseErr != nil {
		return nil, m.courseErr
	}
	return m.course, nil
}

func (m *mockClassroom) ListMaterials(ctx context.Context, courseID string) ([]*model.CourseWorkMaterial, error) {
	return m.materials, m.materialsErr
}

type mockProfile struct {
	info       *model.UserInfo
	fetchedURL string
}

func (m *mockProfile) GetUserInfo(ctx context.Context) (*model.UserInfo, error) {
	if m.info == nil {
		return nil, errMock
	}
	return m.info, nil
}

func (m *mockProfile) FetchImage(ctx context.Context, imageURL string) (*model.ProfileImage, error) {
	m.fetchedURL = imageURL
	return &model.ProfileImage{
		Body:        io.NopCloser(strings.NewReader("img")),
		ContentType: "image/png",
	}, nil
}

type mockFactory struct {
	clients *interfaces.GoogleClients
	token   *model.Token
}

func (m *mockFactory) New(ctx context.Context, token *model.Token) (*interfaces.GoogleClients, error) {
	m.token = token
	return m.clients, nil
}

type mockAuthenticator struct {
	exchangeToken *model.Token
	refreshToken  *model.Token
	refreshErr    error
	refreshedWith string
	revoked       chan string
}

func (m *mockAuthenticator) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *mockAuthenticator) Exchange(ctx context.Context, code string) (*model.Token, error) {
	if m.exchangeToken == nil {
		return nil, errMock
	}
	return m.exchangeToken, nil
}

func (m *mockAuthenticator) Refresh(ctx context.Context, refreshToken string) (*model.Token, error) {
	m.refreshedWith = refreshToken
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshToken, nil
}

func (m *mockAuthenticator) Revoke(ctx context.Context, accessToken string) error {
	m.revoked <- accessToken
	return nil
}

func driveFileMaterial(id, title string, fileIDs ...string) *model.CourseWorkMaterial {
	m := &model.CourseWorkMaterial{ID: id, Title: title}
	for _, fid := range fileIDs {
		m.Materials = append(m.Materials, &model.MaterialItem{
			DriveFile: &model.SharedDriveFile{DriveFile: &model.DriveItem{ID: fid}},
		})
	}
	return m
}
