package google_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	googleinfra "github.com/m-mizutani/classzip/pkg/infra/google"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

func newClassroomClient(t *testing.T, handler http.Handler) interfaces.ClassroomClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := classroom.NewService(context.Background(),
		option.WithHTTPClient(ts.Client()),
		option.WithEndpoint(ts.URL+"/"),
	)
	gt.NoError(t, err)
	return googleinfra.NewClassroomClient(svc, ts.Client())
}

func TestClassroomClient_ListMaterials(t *testing.T) {
	client := newClassroomClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/v1/courses/course-1/courseWorkMaterials")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("pageToken") {
		case "":
			_, _ = io.WriteString(w, `{
				"courseWorkMaterial": [{
					"id": "m1",
					"title": "Week 1",
					"materials": [{"driveFile": {"driveFile": {"id": "f1", "title": "a.pdf"}}}],
					"material": {"driveFolder": {"driveFolder": {"id": "d1", "title": "legacy"}}}
				}],
				"nextPageToken": "next"
			}`)
		case "next":
			_, _ = io.WriteString(w, `{"courseWorkMaterial": [{"id": "m2", "title": "Week 2"}]}`)
		default:
			t.Errorf("unexpected page token")
		}
	}))

	materials, err := client.ListMaterials(context.Background(), "course-1")
	gt.NoError(t, err)
	gt.Value(t, len(materials)).Equal(2)

	first := model.NewMaterial(materials[0])
	gt.Value(t, first.Attachments).Equal([]model.Attachment{
		model.DriveFileAttachment{FileID: "f1", Title: "a.pdf"},
		model.DriveFolderAttachment{FolderID: "d1", Title: "legacy"},
	})
	gt.Value(t, materials[1].ID).Equal("m2")
}

func TestClassroomClient_ListMaterials_Empty(t *testing.T) {
	client := newClassroomClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	}))

	materials, err := client.ListMaterials(context.Background(), "course-1")
	gt.NoError(t, err)
	encoded, err := json.Marshal(materials)
	gt.NoError(t, err)
	gt.Value(t, string(encoded)).Equal("[]")
}

func TestClassroomClient_ListMaterials_Error(t *testing.T) {
	client := newClassroomClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"forbidden"}}`)
	}))

	_, err := client.ListMaterials(context.Background(), "course-1")
	gt.Error(t, err)
}

func TestClassroomClient_Courses(t *testing.T) {
	client := newClassroomClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/courses":
			if r.URL.Query().Get("pageToken") == "" {
				_, _ = io.WriteString(w, `{"courses":[{"id":"c1","name":"Biology"}],"nextPageToken":"p2"}`)
				return
			}
			_, _ = io.WriteString(w, `{"courses":[{"id":"c2","name":"Chemistry"}]}`)
		case "/v1/courses/c1":
			_, _ = io.WriteString(w, `{"id":"c1","name":"Biology","section":"A"}`)
		default:
			http.NotFound(w, r)
		}
	}))

	courses, err := client.ListCourses(context.Background())
	gt.NoError(t, err)
	gt.Value(t, len(courses)).Equal(2)
	gt.Value(t, courses[1].Name).Equal("Chemistry")

	course, err := client.GetCourse(context.Background(), "c1")
	gt.NoError(t, err)
	gt.Value(t, course.Section).Equal("A")
}
