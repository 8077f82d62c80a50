package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/classzip/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

var (
	errFetchCourses   = goerr.New("Failed to fetch courses")
	errFetchMaterials = goerr.New("Failed to fetch course materials")
	errFetchUserInfo  = goerr.New("Failed to fetch user info")
	errDownload       = goerr.New("Failed to download course materials")
)

type courseHandler struct {
	classroom interfaces.ClassroomUseCase
	archive   interfaces.ArchiveUseCase
}

// requireToken returns the session token or answers 401
func requireToken(w http.ResponseWriter, r *http.Request) (*model.Token, bool) {
	token := tokenFromContext(r.Context())
	if token == nil {
		writeError(w, errAuthRequired, http.StatusUnauthorized)
		return nil, false
	}
	return token, true
}

func (h *courseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	courses, err := h.classroom.ListCourses(r.Context(), token)
	if err != nil {
		errs.Handle(r.Context(), "failed to list courses", err)
		writeError(w, errFetchCourses, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, courses)
}

func (h *courseHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	materials, err := h.classroom.ListMaterials(r.Context(), token, chi.URLParam(r, "courseId"))
	if err != nil {
		errs.Handle(r.Context(), "failed to list course materials", err)
		writeError(w, errFetchMaterials, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, materials)
}

func (h *courseHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	info, err := h.classroom.UserInfo(r.Context(), token)
	if err != nil {
		errs.Handle(r.Context(), "failed to get user info", err)
		writeError(w, errFetchUserInfo, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, info)
}

// ProfileImage proxies the user's avatar. Any failure falls back to a
// generated placeholder image.
func (h *courseHandler) ProfileImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	img, err := h.classroom.ProfileImage(ctx, token, chi.URLParam(r, "id"))
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to proxy profile image", "error", err)
		http.Redirect(w, r, model.PlaceholderAvatarURL, http.StatusFound)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, img.Body); err != nil {
		ctxlog.From(ctx).Warn("Failed to write profile image", "error", err)
	}
}

// Download streams the course archive. Once the archive has been opened the
// status line is sent, so later failures can only cut the stream short.
func (h *courseHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	courseID := chi.URLParam(r, "courseId")

	started := false
	err := h.archive.Download(ctx, token, courseID, func(filename string) io.Writer {
		started = true
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": filename,
		}))
		w.WriteHeader(http.StatusOK)
		return &streamWriter{w: w, rc: http.NewResponseController(w)}
	})
	if err != nil {
		if !started {
			errs.Handle(ctx, "failed to prepare course archive", err)
			writeError(w, errDownload, http.StatusInternalServerError)
			return
		}
		errs.Handle(ctx, "course archive stream interrupted", err)
	}
}

// streamWriter writes to the response and pushes buffered bytes to the
// client on Flush
type streamWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func (s *streamWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *streamWriter) Flush() error {
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
