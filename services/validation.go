package services

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin/errs"
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/storage"
)

// messages are keyed by "<field>.<rule>"
var messages = map[string]string{
	"title.required":       "Title is mandatory",
	"title.min":            "Title has to be min 5 characters",
	"title.max":            "Title has to be max 20 characters",
	"title.unique":         "Title has to be different from other projects",
	"description.required": "Description is mandatory",
	"screen.image":         "Image has to be an image file",
	"screen.mimes":         "Image extension accepted are: jpeg, jpg, png",
	"category_id.exists":   "Category not valid",
	"technologies.exists":  "Technology not valid",
}

var acceptedScreenTypes = []string{"image/jpeg", "image/png"}

// validatedInput is a ProjectInput after every reference has been resolved
type validatedInput struct {
	screen          *storage.Asset
	categoryID      *uint
	technologies    []models.Technology
	technologiesSet bool
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks every rule and reports all failing fields at once.
// excludeID is the project being updated, nil on create.
func (s *ProjectService) validateInput(ctx context.Context, in *ProjectInput, excludeID *uuid.UUID) (*validatedInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	fields := make(map[string]string)
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = messages[fe.Field()+"."+fe.Tag()]
			}
		}
	}

	if _, invalid := fields["title"]; !invalid {
		taken, err := s.projects.TitleExists(ctx, in.Title, excludeID)
		if err != nil {
			return nil, errs.NewDatabaseError("check title of", "project", err)
		}
		if taken {
			fields["title"] = messages["title.unique"]
		}
	}

	valid := &validatedInput{}

	if upload, ok := in.Screen.Get(); ok {
		asset, rule := inspectScreen(upload)
		if rule != "" {
			fields["screen"] = messages["screen."+rule]
		}
		valid.screen = asset
	}

	if id, ok := in.CategoryID.Get(); ok {
		exists, err := s.categories.Exists(ctx, id)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "category", err)
		}
		if !exists {
			fields["category_id"] = messages["category_id.exists"]
		}
		valid.categoryID = &id
	}

	if ids, ok := in.Technologies.Get(); ok {
		unique := uniqueIDs(ids)
		found, err := s.technologies.FindByIDs(ctx, unique)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "technologies", err)
		}
		if len(found) != len(unique) {
			fields["technologies"] = messages["technologies.exists"]
		}
		valid.technologies = found
		valid.technologiesSet = true
	}

	if len(fields) > 0 {
		return nil, errs.NewValidationError(fields)
	}
	return valid, nil
}

// inspectScreen sniffs the upload's content; the client supplied filename is not trusted.
// It returns the failing rule name, or the asset ready for storage.
func inspectScreen(upload Upload) (*storage.Asset, string) {
	if len(upload.Data) == 0 {
		return nil, "image"
	}

	mtype := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "image"
	}
	if !mimetype.EqualsAny(mtype.String(), acceptedScreenTypes...) {
		return nil, "mimes"
	}

	return &storage.Asset{
		Filename:    upload.Filename,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Data:        upload.Data,
	}, ""
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
