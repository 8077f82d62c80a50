package google_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/classzip/pkg/domain/model"
	googleinfra "github.com/m-mizutani/classzip/pkg/infra/google"
	"github.com/m-mizutani/gt"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

func TestProfileClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/v2/userinfo":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"name":"Ada","email":"ada@example.com","picture":"https://lh3.googleusercontent.com/a/x"}`)
		case "/avatar.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = io.WriteString(w, "png-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	svc, err := oauth2api.NewService(context.Background(),
		option.WithHTTPClient(ts.Client()),
		option.WithEndpoint(ts.URL+"/"),
	)
	gt.NoError(t, err)
	client := googleinfra.NewProfileClient(svc, ts.Client())

	t.Run("user info", func(t *testing.T) {
		info, err := client.GetUserInfo(context.Background())
		gt.NoError(t, err)
		gt.Value(t, info).Equal(&model.UserInfo{
			Name:    "Ada",
			Email:   "ada@example.com",
			Picture: "https://lh3.googleusercontent.com/a/x",
		})
	})

	t.Run("image with content type", func(t *testing.T) {
		img, err := client.FetchImage(context.Background(), ts.URL+"/avatar.png")
		gt.NoError(t, err)
		defer img.Body.Close()

		gt.Value(t, img.ContentType).Equal("image/png")
		data, err := io.ReadAll(img.Body)
		gt.NoError(t, err)
		gt.Value(t, string(data)).Equal("png-bytes")
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := client.FetchImage(context.Background(), ts.URL+"/nothing")
		gt.Error(t, err)
	})
}
