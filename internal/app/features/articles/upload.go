// internal/app/features/articles/upload.go
package articles

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/imagestore"
	"github.com/dalemusser/ideahub/internal/app/system/limits"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
)

// HandleUploadImage handles POST /articles/images (multipart field "file").
//
//	→ 201 { "path", "url", "markdown" }
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imagestore.MaxImageSize+limits.MultipartOverhead)
	if err := r.ParseMultipartForm(imagestore.MaxImageSize + limits.MultipartOverhead); err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload image: parse form failed", err, "Upload must be a multipart form no larger than 5 MiB.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload image: missing file", err, "A file field is required.")
		return
	}
	defer file.Close()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload image")
	defer cancel()

	img, err := h.Articles.UploadImage(ctx, auth.FromRequest(r).Viewer(),
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.ErrLog.Write(w, r, "upload image", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, img)
}
