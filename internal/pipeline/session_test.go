package pipeline

import (
	"context"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// fakeSession is an in-memory Session with injectable failures.
type fakeSession struct {
	colleges   map[string]*catalog.College
	courses    map[catalog.NaturalKey]*catalog.PersistedCourse
	failInsert map[string]error // by course code
	commitErr  error
	nextID     int64
	committed  bool
	rolledBack bool
}

func newFakeSession() *fakeSession {
	s := &fakeSession{
		colleges:   make(map[string]*catalog.College),
		courses:    make(map[catalog.NaturalKey]*catalog.PersistedCourse),
		failInsert: make(map[string]error),
		nextID:     1,
	}
	for i, c := range catalog.KnownColleges {
		college := c
		college.ID = int64(i + 1)
		s.colleges[string(c.Code)] = &college
	}
	return s
}

func (s *fakeSession) FindCollege(ctx context.Context, code string) (*catalog.College, error) {
	return s.colleges[code], nil
}

func (s *fakeSession) FindLocationByNameSubstring(ctx context.Context, fragment string) (*catalog.Location, error) {
	return nil, nil
}

func (s *fakeSession) FindCourse(ctx context.Context, key catalog.NaturalKey) (*catalog.PersistedCourse, error) {
	return s.courses[key], nil
}

func (s *fakeSession) InsertCourse(ctx context.Context, f catalog.CourseFields) (*catalog.PersistedCourse, error) {
	if err := s.failInsert[f.CourseCode]; err != nil {
		return nil, err
	}
	c := &catalog.PersistedCourse{ID: s.nextID, CourseCode: f.CourseCode, Section: f.Section, Semester: f.Semester}
	s.nextID++
	s.courses[c.Key()] = c
	return c, nil
}

func (s *fakeSession) UpdateCourse(ctx context.Context, id int64, f catalog.CourseFields) (*catalog.PersistedCourse, error) {
	c := &catalog.PersistedCourse{ID: id, CourseCode: f.CourseCode, Section: f.Section, Semester: f.Semester}
	s.courses[c.Key()] = c
	return c, nil
}

func (s *fakeSession) Commit() error {
	s.committed = true
	return s.commitErr
}

func (s *fakeSession) Rollback() error {
	s.rolledBack = true
	return nil
}
