package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-admin/errs"
	"github.com/rpupo63/portfolio-admin/services"
)

// maxFormMemory is how much of a multipart body is kept in memory before spilling to temp files
const maxFormMemory = 8 << 20

// projectFormFields lists every value a project form may carry. "screen" appears here because a file
// input with nothing selected arrives as an empty value.
var projectFormFields = map[string]bool{
	"title":          true,
	"description":    true,
	"category_id":    true,
	"technologies":   true,
	"technologies[]": true,
	"screen":         true,
}

var projectFormFiles = map[string]bool{
	"screen": true,
}

var acceptedFormTypes = []string{"multipart/form-data", "application/x-www-form-urlencoded"}

// parseProjectInput reads a project form, rejecting any field outside projectFormFields.
// Ids that are not numbers become 0, which never exists, so the service reports them as invalid references.
func parseProjectInput(w http.ResponseWriter, r *http.Request, maxBytes int64) (services.ProjectInput, error) {
	var in services.ProjectInput

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != acceptedFormTypes[0] && mediaType != acceptedFormTypes[1]) {
		return in, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), acceptedFormTypes)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return in, errs.NewMaxBodySizeExceededError(maxBytes)
		}
		return in, errs.NewMalformedPayloadError("form", err)
	}

	values := r.PostForm
	for field := range values {
		if !projectFormFields[field] {
			return in, errs.NewUnknownFieldError(field)
		}
	}

	var files map[string][]*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File
	}
	for field := range files {
		if !projectFormFiles[field] {
			return in, errs.NewUnknownFieldError(field)
		}
	}

	in.Title = values.Get("title")
	in.Description = values.Get("description")

	if raw := strings.TrimSpace(values.Get("category_id")); raw != "" {
		in.CategoryID = services.Some(parseID(raw))
	}

	if ids, present := technologyIDs(values); present {
		in.Technologies = services.Some(ids)
	}

	if headers := files["screen"]; len(headers) > 0 {
		upload, err := readUpload(headers[0])
		if err != nil {
			return in, errs.NewMalformedPayloadError("screen", err)
		}
		in.Screen = services.Some(upload)
	}

	return in, nil
}

// technologyIDs accepts both "technologies" and the "technologies[]" naming of HTML multi-selects.
// Blank entries are skipped so a form can submit an explicitly empty set.
func technologyIDs(values url.Values) ([]uint, bool) {
	raw, plain := values["technologies"]
	bracketed, hasBrackets := values["technologies[]"]
	if !plain && !hasBrackets {
		return nil, false
	}

	ids := []uint{}
	for _, value := range append(raw, bracketed...) {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, parseID(part))
			}
		}
	}
	return ids, true
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

func readUpload(header *multipart.FileHeader) (services.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return services.Upload{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Upload{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	return services.Upload{Filename: header.Filename, Data: data}, nil
}
