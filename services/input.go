package services

import (
	"github.com/rpupo63/portfolio-admin/models"
)

// Opt is a value that is either present or absent. The zero value is absent.
type Opt[T any] struct {
	value T
	set   bool
}

// Some returns a present Opt holding v
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// None returns an absent Opt
func None[T any]() Opt[T] {
	return Opt[T]{}
}

func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Opt[T]) IsSet() bool {
	return o.set
}

// Upload is a file received from a form
type Upload struct {
	Filename string
	Data     []byte
}

// ProjectInput is the full set of fields accepted by Store and Update.
// Anything else a caller sends is rejected before it gets here.
type ProjectInput struct {
	Title        string      `json:"title" validate:"required,min=5,max=20"`
	Description  string      `json:"description" validate:"required"`
	Screen       Opt[Upload] `json:"screen" validate:"-"`
	CategoryID   Opt[uint]   `json:"category_id" validate:"-"`
	Technologies Opt[[]uint] `json:"technologies" validate:"-"`
}

// RequestContext identifies who is acting and on behalf of which request
type RequestContext struct {
	Actor     string
	RequestID string
}

// ProjectForm holds everything an admin form needs to render
type ProjectForm struct {
	Project             *models.Project     `json:"project"`
	Categories          []models.Category   `json:"categories"`
	Technologies        []models.Technology `json:"technologies"`
	ProjectTechnologies []uint              `json:"project_technologies"`
}
