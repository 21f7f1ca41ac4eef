package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-admin/database"
	"github.com/rpupo63/portfolio-admin/errs"
	"github.com/rpupo63/portfolio-admin/models"
)

func (s *ProjectServiceTestSuite) TestStoreDerivesSlugAndAttachesTechnologies() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:        "Portfolio Site",
		Description:  "x",
		Technologies: Some([]uint{s.techID(0), s.techID(1)}),
	})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, id)

	form, err := s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Portfolio Site", form.Project.Title)
	s.Equal("portfolio-site", form.Project.Slug)
	s.Nil(form.Project.Screen)
	s.Nil(form.Project.CategoryID)
	s.ElementsMatch([]uint{s.techID(0), s.techID(1)}, form.ProjectTechnologies)
	s.Len(form.Categories, 2)
	s.Len(form.Technologies, 3)
}

func (s *ProjectServiceTestSuite) TestStoreTrimsInput() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{Title: "   Hello World  ", Description: " body "})
	s.Require().NoError(err)

	project, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Hello World", project.Title)
	s.Equal("body", project.Description)
	s.Equal("hello-world", project.Slug)
}

func (s *ProjectServiceTestSuite) TestStoreTitleLength() {
	cases := []struct {
		title   string
		message string
	}{
		{title: "Tiny", message: "Title has to be min 5 characters"},
		{title: strings.Repeat("a", 21), message: "Title has to be max 20 characters"},
		{title: "", message: "Title is mandatory"},
	}

	for _, tc := range cases {
		_, err := s.service.Store(s.ctx, s.rc, ProjectInput{Title: tc.title, Description: "x"})
		s.Require().Error(err, tc.title)
		s.True(errs.IsValidation(err))
		s.Equal(tc.message, errs.FieldMessages(err)["title"])
	}

	// boundaries are inclusive, and length is counted in characters
	s.storeProject("Hello")
	s.storeProject(strings.Repeat("b", 20))
	s.storeProject("Crème brûlée")
}

func (s *ProjectServiceTestSuite) TestStoreRejectsDuplicateTitle() {
	s.storeProject("Portfolio Site")

	_, err := s.service.Store(s.ctx, s.rc, ProjectInput{Title: "Portfolio Site", Description: "again"})
	s.Require().Error(err)
	s.Equal("Title has to be different from other projects", errs.FieldMessages(err)["title"])
}

func (s *ProjectServiceTestSuite) TestStoreReportsEveryInvalidField() {
	_, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:        "",
		Description:  "   ",
		CategoryID:   Some(uint(999)),
		Technologies: Some([]uint{s.techID(0), 999}),
	})
	s.Require().Error(err)

	fields := errs.FieldMessages(err)
	s.Equal(map[string]string{
		"title":        "Title is mandatory",
		"description":  "Description is mandatory",
		"category_id":  "Category not valid",
		"technologies": "Technology not valid",
	}, fields)
}

func (s *ProjectServiceTestSuite) TestStoreRejectsNonImageScreenWithoutWriting() {
	_, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Text Upload",
		Description: "x",
		Screen:      Some(Upload{Filename: "notes.png", Data: textBytes}),
	})
	s.Require().Error(err)
	s.Equal("Image has to be an image file", errs.FieldMessages(err)["screen"])

	s.Zero(s.store.puts)
	projects, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(projects)
}

func (s *ProjectServiceTestSuite) TestStoreRejectsUnacceptedImageType() {
	_, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Gif Upload",
		Description: "x",
		Screen:      Some(Upload{Filename: "anim.gif", Data: gifBytes}),
	})
	s.Require().Error(err)
	s.Equal("Image extension accepted are: jpeg, jpg, png", errs.FieldMessages(err)["screen"])
	s.Zero(s.store.puts)
}

func (s *ProjectServiceTestSuite) TestStoreUploadsScreen() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "With Screen",
		Description: "x",
		Screen:      Some(Upload{Filename: "shot.PNG", Data: pngBytes}),
		CategoryID:  Some(s.categories[0].ID),
	})
	s.Require().NoError(err)

	project, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(project.Screen)
	s.True(strings.HasPrefix(*project.Screen, "projects/"))
	s.True(strings.HasSuffix(*project.Screen, ".png"))
	s.True(s.store.has(*project.Screen))
	s.Require().NotNil(project.Category)
	s.Equal(s.categories[0].Label, project.Category.Label)
}

func (s *ProjectServiceTestSuite) TestStoreDeduplicatesTechnologies() {
	id := s.storeProject("Duplicated", s.techID(0), s.techID(0), s.techID(1))

	form, err := s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{s.techID(0), s.techID(1)}, form.ProjectTechnologies)
}

func (s *ProjectServiceTestSuite) TestStoreFailsWhenUploadFails() {
	s.store.putErr = errPutFailed

	_, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Upload Fails",
		Description: "x",
		Screen:      Some(Upload{Filename: "shot.jpg", Data: jpegBytes}),
	})
	s.Require().Error(err)
	s.True(errs.IsStorageError(err))

	projects, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(projects)
}

// racingProjectRepo misses concurrent inserts, like a check-then-write race would
type racingProjectRepo struct {
	*database.ProjectRepo
}

func (r racingProjectRepo) TitleExists(context.Context, string, *uuid.UUID) (bool, error) {
	return false, nil
}

func (s *ProjectServiceTestSuite) TestStoreRemovesUploadWhenInsertFails() {
	s.storeProject("Portfolio Site")

	dbase := database.New(s.db)
	racing := NewProjectService(racingProjectRepo{dbase.ProjectRepo()}, dbase.CategoryRepo(), dbase.TechnologyRepo(), s.store)

	_, err := racing.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Portfolio Site",
		Description: "x",
		Screen:      Some(Upload{Filename: "shot.png", Data: pngBytes}),
	})
	s.Require().Error(err)
	s.True(errs.IsConflict(err))
	s.True(errs.IsUniqueConstraintViolationError(err))
	s.Equal(1, s.store.puts)
	s.Len(s.store.deletes, 1)
	s.Zero(s.store.count())
}

func (s *ProjectServiceTestSuite) TestUpdateAllowsOwnTitleOnly() {
	first := s.storeProject("First Project")
	s.storeProject("Second Project")

	err := s.service.Update(s.ctx, s.rc, first, ProjectInput{Title: "First Project", Description: "changed"})
	s.Require().NoError(err)

	err = s.service.Update(s.ctx, s.rc, first, ProjectInput{Title: "Second Project", Description: "changed"})
	s.Require().Error(err)
	s.Equal("Title has to be different from other projects", errs.FieldMessages(err)["title"])

	project, err := s.service.Show(s.ctx, first)
	s.Require().NoError(err)
	s.Equal("First Project", project.Title)
	s.Equal("changed", project.Description)
}

func (s *ProjectServiceTestSuite) TestUpdateRecomputesSlugAndTimestamp() {
	id := s.storeProject("Old Name")
	before, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)

	time.Sleep(5 * time.Millisecond)
	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{Title: "Brand_New Name!", Description: "x"}))

	after, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("brand-new-name", after.Slug)
	s.True(after.UpdatedAt.After(before.UpdatedAt))
}

func (s *ProjectServiceTestSuite) TestUpdateReplacesTechnologySet() {
	id := s.storeProject("Sync Target", s.techID(0), s.techID(1))

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:        "Sync Target",
		Description:  "x",
		Technologies: Some([]uint{s.techID(2), s.techID(1)}),
	}))
	form, err := s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{s.techID(1), s.techID(2)}, form.ProjectTechnologies)

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:        "Sync Target",
		Description:  "x",
		Technologies: Some([]uint{}),
	}))
	form, err = s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(form.ProjectTechnologies)
}

func (s *ProjectServiceTestSuite) TestUpdateWithoutTechnologiesDetachesAll() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:        "Portfolio Site",
		Description:  "x",
		Technologies: Some([]uint{s.techID(0), s.techID(1)}),
	})
	s.Require().NoError(err)

	form, err := s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.ElementsMatch([]uint{s.techID(0), s.techID(1)}, form.ProjectTechnologies)

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{Title: "Portfolio Site", Description: "y"}))

	form, err = s.service.PrepareEdit(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(form.ProjectTechnologies)
	s.Equal("y", form.Project.Description)
}

func (s *ProjectServiceTestSuite) TestUpdateReplacesScreenAndDeletesPrevious() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Screens",
		Description: "x",
		Screen:      Some(Upload{Filename: "a.png", Data: pngBytes}),
	})
	s.Require().NoError(err)
	original, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	oldRef := *original.Screen

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:       "Screens",
		Description: "x",
		Screen:      Some(Upload{Filename: "b.jpeg", Data: jpegBytes}),
	}))

	updated, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(updated.Screen)
	s.NotEqual(oldRef, *updated.Screen)
	s.True(strings.HasSuffix(*updated.Screen, ".jpg"))
	s.False(s.store.has(oldRef))
	s.True(s.store.has(*updated.Screen))

	// no screen in the input leaves the stored one alone
	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{Title: "Screens", Description: "z"}))
	kept, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(*updated.Screen, *kept.Screen)
	s.True(s.store.has(*kept.Screen))
}

func (s *ProjectServiceTestSuite) TestUpdateSucceedsWhenOldScreenCannotBeDeleted() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:        "Sticky Screen",
		Description:  "x",
		Screen:       Some(Upload{Filename: "a.png", Data: pngBytes}),
		Technologies: Some([]uint{s.techID(0)}),
	})
	s.Require().NoError(err)
	original, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	oldRef := *original.Screen

	s.store.deleteErr = errDeleteFailed
	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:       "Sticky Renamed",
		Description: "y",
		Screen:      Some(Upload{Filename: "b.png", Data: pngBytes}),
	}))

	updated, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Sticky Renamed", updated.Title)
	s.Empty(updated.TechnologyIDs())
	s.Require().NotNil(updated.Screen)
	s.NotEqual(oldRef, *updated.Screen)
	s.True(s.store.has(*updated.Screen))
	s.Equal([]string{oldRef}, s.store.deletes)
	// the old asset is left behind as an orphan
	s.True(s.store.has(oldRef))
}

func (s *ProjectServiceTestSuite) TestUpdateInvalidScreenKeepsPrevious() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Keep Screen",
		Description: "x",
		Screen:      Some(Upload{Filename: "a.png", Data: pngBytes}),
	})
	s.Require().NoError(err)

	err = s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:       "Keep Screen",
		Description: "x",
		Screen:      Some(Upload{Filename: "b.png", Data: textBytes}),
	})
	s.Require().Error(err)
	s.True(errs.IsValidation(err))
	s.Equal(1, s.store.puts)
	s.Empty(s.store.deletes)
}

func (s *ProjectServiceTestSuite) TestUpdateCategory() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:       "Categorised",
		Description: "x",
		CategoryID:  Some(s.categories[1].ID),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{
		Title:       "Categorised",
		Description: "x",
		CategoryID:  Some(s.categories[0].ID),
	}))
	project, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(project.CategoryID)
	s.Equal(s.categories[0].ID, *project.CategoryID)

	s.Require().NoError(s.service.Update(s.ctx, s.rc, id, ProjectInput{Title: "Categorised", Description: "x"}))
	project, err = s.service.Show(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(project.CategoryID)
}

func (s *ProjectServiceTestSuite) TestUpdateMissingProject() {
	err := s.service.Update(s.ctx, s.rc, uuid.New(), ProjectInput{Title: "Nobody Home", Description: "x"})
	s.Require().Error(err)
	s.True(errs.IsNotFound(err))
}

func (s *ProjectServiceTestSuite) TestDestroy() {
	id, err := s.service.Store(s.ctx, s.rc, ProjectInput{
		Title:        "Short Lived",
		Description:  "x",
		Screen:       Some(Upload{Filename: "a.png", Data: pngBytes}),
		Technologies: Some([]uint{s.techID(0), s.techID(2)}),
	})
	s.Require().NoError(err)
	project, err := s.service.Show(s.ctx, id)
	s.Require().NoError(err)

	title, err := s.service.Destroy(s.ctx, s.rc, id)
	s.Require().NoError(err)
	s.Equal("Short Lived", title)

	_, err = s.service.PrepareEdit(s.ctx, id)
	s.True(errs.IsNotFound(err))

	_, err = s.service.Destroy(s.ctx, s.rc, id)
	s.True(errs.IsNotFound(err))

	var joinRows int64
	s.Require().NoError(s.db.Table("project_technology").Where("project_id = ?", id).Count(&joinRows).Error)
	s.Zero(joinRows)

	// the screenshot outlives the project
	s.True(s.store.has(*project.Screen))
}

func (s *ProjectServiceTestSuite) TestDestroyMissingProject() {
	_, err := s.service.Destroy(s.ctx, s.rc, uuid.New())
	s.Require().Error(err)
	s.True(errs.IsNotFound(err))
}

func (s *ProjectServiceTestSuite) TestListOrdersByMostRecentlyUpdated() {
	older := s.storeProject("Older Project")
	newer := s.storeProject("Newer Project")

	s.Require().NoError(s.db.Model(&models.Project{}).Where("id = ?", older).
		Update("updated_at", time.Now().Add(-time.Hour)).Error)
	s.Require().NoError(s.db.Model(&models.Project{}).Where("id = ?", newer).
		Update("updated_at", time.Now().Add(time.Hour)).Error)

	projects, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal(newer, projects[0].ID)
	s.Equal(older, projects[1].ID)
}

func (s *ProjectServiceTestSuite) TestPrepareCreate() {
	form, err := s.service.PrepareCreate(s.ctx)
	s.Require().NoError(err)

	s.Require().NotNil(form.Project)
	s.Equal(uuid.Nil, form.Project.ID)
	s.Empty(form.ProjectTechnologies)

	s.Require().Len(form.Categories, 2)
	s.Equal("Mobile", form.Categories[0].Label)
	s.Equal("Web", form.Categories[1].Label)

	s.Require().Len(form.Technologies, 3)
	for i := 1; i < len(form.Technologies); i++ {
		s.Less(form.Technologies[i-1].ID, form.Technologies[i].ID)
	}
	s.Equal("Go", form.Technologies[0].Label)
}
