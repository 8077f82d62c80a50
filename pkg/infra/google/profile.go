package google

import (
	"context"
	"net/http"

	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	oauth2api "google.golang.org/api/oauth2/v2"
)

const defaultImageContentType = "image/jpeg"

type profileClient struct {
	svc        *oauth2api.Service
	httpClient *http.Client
}

// NewProfileClient wraps an authorized userinfo service. Avatar requests are
// sent with httpClient so they carry the caller's bearer token.
func NewProfileClient(svc *oauth2api.Service, httpClient *http.Client) interfaces.ProfileClient {
	return &profileClient{svc: svc, httpClient: httpClient}
}

func (c *profileClient) GetUserInfo(ctx context.Context) (*model.UserInfo, error) {
	info, err := c.svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info")
	}

	return &model.UserInfo{
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

func (c *profileClient) FetchImage(ctx context.Context, imageURL string) (*model.ProfileImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create image request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch profile image")
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, goerr.New("unexpected status code for profile image", goerr.V("status", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageContentType
	}

	return &model.ProfileImage{
		Body:        resp.Body,
		ContentType: contentType,
	}, nil
}
