package relay

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// MaxAudioBytes is the largest upload forwarded upstream (25 MiB).
const MaxAudioBytes = 25 * 1024 * 1024

type upload struct {
	data        []byte
	fileName    string
	contentType string
}

// readUpload streams the multipart body until the first "file" part and
// applies the content policy to it. The blob is held in memory only.
func readUpload(r *http.Request) (*upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		if part.FormName() != "file" {
			continue
		}
		if !isFilePart(part) {
			return nil, errNoFile
		}

		contentType := part.Header.Get("Content-Type")
		if !strings.HasPrefix(strings.ToLower(contentType), "audio/") {
			return nil, errBadMime
		}

		data, err := io.ReadAll(io.LimitReader(part, MaxAudioBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read file part: %w", err)
		}
		if len(data) > MaxAudioBytes {
			return nil, errTooLarge
		}

		return &upload{
			data:        data,
			fileName:    part.FileName(),
			contentType: contentType,
		}, nil
	}
}

// isFilePart reports whether the part carries a filename parameter, even an empty one.
func isFilePart(p *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}
