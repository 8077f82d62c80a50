package model

import (
	"encoding/base64"
	"io"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// ProfileImagePath is the same-origin prefix of proxied avatar URLs.
	ProfileImagePath = "/profile-image/"

	// PlaceholderAvatarURL is served when the avatar cannot be proxied.
	PlaceholderAvatarURL = "https://ui-avatars.com/api/?name=User&background=1a73e8&color=fff&size=96"

	avatarHostSuffix = ".googleusercontent.com"
)

var ErrAvatarURLNotAllowed = goerr.New("avatar URL is not allowed")

// UserInfo is the profile returned by /user-info. Picture is a proxy URL.
type UserInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// ProfileImage is a fetched avatar. The caller closes Body.
type ProfileImage struct {
	Body        io.ReadCloser
	ContentType string
}

// EncodeProfileImageID encodes an avatar URL into a path segment.
func EncodeProfileImageID(pictureURL string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(pictureURL))
}

// ProfileImageURL returns the proxy URL for an avatar, or "" without avatar.
func ProfileImageURL(pictureURL string) string {
	if pictureURL == "" {
		return ""
	}
	return ProfileImagePath + EncodeProfileImageID(pictureURL)
}

// DecodeProfileImageID reverses EncodeProfileImageID. Padded and standard
// base64 are accepted too. Only https URLs on Google user-content hosts are
// returned since the caller's access token is sent along with the request.
func DecodeProfileImageID(id string) (string, error) {
	var raw []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding, base64.StdEncoding, base64.RawStdEncoding} {
		if raw, err = enc.DecodeString(id); err == nil {
			break
		}
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode profile image id", goerr.V("id", id))
	}

	u, err := url.Parse(string(raw))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse avatar URL")
	}
	if u.Scheme != "https" || !strings.HasSuffix(u.Hostname(), avatarHostSuffix) {
		return "", goerr.Wrap(ErrAvatarURLNotAllowed, "unexpected avatar URL", goerr.V("url", u.String()))
	}

	return u.String(), nil
}
