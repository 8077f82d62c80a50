package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/googleapi"
)

const materialsPageSize = "100"

type classroomClient struct {
	svc        *classroom.Service
	httpClient *http.Client
}

// NewClassroomClient wraps an authorized Classroom service. httpClient must
// carry the same credentials; it is used for the material listing, which is
// decoded into model.CourseWorkMaterial to keep the legacy singular
// "material" field and Drive folder attachments the generated types drop.
func NewClassroomClient(svc *classroom.Service, httpClient *http.Client) interfaces.ClassroomClient {
	return &classroomClient{svc: svc, httpClient: httpClient}
}

func (c *classroomClient) ListCourses(ctx context.Context) ([]*classroom.Course, error) {
	courses := []*classroom.Course{}
	err := c.svc.Courses.List().Context(ctx).Pages(ctx, func(resp *classroom.ListCoursesResponse) error {
		courses = append(courses, resp.Courses...)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list courses")
	}
	return courses, nil
}

func (c *classroomClient) GetCourse(ctx context.Context, courseID string) (*classroom.Course, error) {
	course, err := c.svc.Courses.Get(courseID).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get course", goerr.V("course_id", courseID))
	}
	return course, nil
}

func (c *classroomClient) ListMaterials(ctx context.Context, courseID string) ([]*model.CourseWorkMaterial, error) {
	materials := []*model.CourseWorkMaterial{}
	pageToken := ""

	for {
		page, err := c.listMaterialsPage(ctx, courseID, pageToken)
		if err != nil {
			return nil, err
		}
		materials = append(materials, page.CourseWorkMaterial...)

		if page.NextPageToken == "" || page.NextPageToken == pageToken {
			break
		}
		pageToken = page.NextPageToken
	}

	return materials, nil
}

func (c *classroomClient) listMaterialsPage(ctx context.Context, courseID, pageToken string) (*model.CourseWorkMaterialList, error) {
	params := url.Values{
		"alt":      {"json"},
		"pageSize": {materialsPageSize},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	endpoint := googleapi.ResolveRelative(c.svc.BasePath, "v1/courses/"+url.PathEscape(courseID)+"/courseWorkMaterials") + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create materials request", goerr.V("course_id", courseID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list course work materials", goerr.V("course_id", courseID))
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, goerr.Wrap(err, "failed to list course work materials", goerr.V("course_id", courseID))
	}

	var page model.CourseWorkMaterialList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, goerr.Wrap(err, "failed to decode course work materials", goerr.V("course_id", courseID))
	}

	return &page, nil
}
