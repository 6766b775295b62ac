package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"go-blog-backend/services"
	"go-blog-backend/storage"

	"github.com/gin-gonic/gin"
)

// formOverhead leaves room for the text fields sent alongside a file
const formOverhead = 64 << 10

// limitBody caps the request body so an oversized upload is cut off while it streams in
// rather than after it has been spooled to disk.
func limitBody(c *gin.Context, maxFile int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFile+formOverhead)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// formUpload opens the multipart file in field. It returns a nil upload when the request
// carries no such file. The caller must run the returned close func.
func formUpload(c *gin.Context, field string) (*storage.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if tooLarge(err) {
		return nil, noop, services.ValidationError("File too big")
	}
	if err != nil {
		return nil, noop, services.ValidationError("Couldn't read %s upload", field)
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*storage.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, services.InternalError("couldn't read upload", err)
	}
	return &storage.Upload{Filename: fh.Filename, Size: fh.Size, Reader: f}, func() { _ = f.Close() }, nil
}
