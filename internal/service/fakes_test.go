package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
)

type fakeIdentity struct {
	role   models.Role
	roleOK bool
	id     int64
	idOK   bool
	calls  int
}

func (f *fakeIdentity) Resolve(ctx context.Context) (models.Role, bool) {
	f.calls++
	return f.role, f.roleOK
}

func (f *fakeIdentity) CurrentID(ctx context.Context) (int64, bool) {
	return f.id, f.idOK
}

type fakeProfiles struct {
	students   map[int64]models.Student
	teachers   map[int64]models.Teacher
	admins     map[int64]models.Staff
	executives map[int64]models.Staff
	rooms      map[int64]models.Room
	majors     map[int64]models.Major
	faculties  map[int64]models.Faculty
	advisors   map[int64][]models.Teacher
}

func (f *fakeProfiles) Student(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Teacher(ctx context.Context, id int64) (*models.Teacher, error) {
	if t, ok := f.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Admin(ctx context.Context, id int64) (*models.Staff, error) {
	if s, ok := f.admins[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Executive(ctx context.Context, id int64) (*models.Staff, error) {
	if s, ok := f.executives[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Room(ctx context.Context, id int64) (*models.Room, error) {
	if r, ok := f.rooms[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Major(ctx context.Context, id int64) (*models.Major, error) {
	if m, ok := f.majors[id]; ok {
		return &m, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) Faculty(ctx context.Context, id int64) (*models.Faculty, error) {
	if fa, ok := f.faculties[id]; ok {
		return &fa, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) AdvisorsByRoom(ctx context.Context, roomID int64) ([]models.Teacher, error) {
	return f.advisors[roomID], nil
}

type fakeRounds struct {
	rounds    []models.Round
	questions map[int64][]models.Question
	createErr error
	created   []models.Round
	deleted   []int64
	nextQID   int64
}

func (f *fakeRounds) List(ctx context.Context) ([]models.Round, error) {
	return f.rounds, nil
}

func (f *fakeRounds) FindByID(ctx context.Context, id int64) (*models.Round, error) {
	for _, r := range f.rounds {
		if r.ID == id {
			round := r
			return &round, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRounds) Create(ctx context.Context, round *models.Round) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *round)
	f.rounds = append(f.rounds, *round)
	return nil
}

func (f *fakeRounds) Update(ctx context.Context, round *models.Round) error {
	for i := range f.rounds {
		if f.rounds[i].ID == round.ID {
			f.rounds[i] = *round
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRounds) Delete(ctx context.Context, id int64) error {
	for i := range f.rounds {
		if f.rounds[i].ID == id {
			f.rounds = append(f.rounds[:i], f.rounds[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRounds) Questions(ctx context.Context, roundID int64) ([]models.Question, error) {
	return f.questions[roundID], nil
}

func (f *fakeRounds) CreateQuestion(ctx context.Context, q *models.Question) error {
	f.nextQID++
	q.ID = f.nextQID
	if f.questions == nil {
		f.questions = make(map[int64][]models.Question)
	}
	f.questions[q.RoundID] = append(f.questions[q.RoundID], *q)
	return nil
}

func (f *fakeRounds) DeleteQuestion(ctx context.Context, id int64) error {
	for roundID, qs := range f.questions {
		for i, q := range qs {
			if q.ID == id {
				f.questions[roundID] = append(qs[:i], qs[i+1:]...)
				return nil
			}
		}
	}
	return sql.ErrNoRows
}

type answerKey struct {
	student, teacher, round int64
}

type fakeAnswers struct {
	counts     map[int64]int
	countErr   error
	answered   map[answerKey]bool
	comments   map[answerKey][]models.Comment
	upserted   []models.Answer
	upsertErr  error
	countCalls int
}

func (f *fakeAnswers) CountByRound(ctx context.Context, roundID int64) (int, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[roundID], nil
}

func (f *fakeAnswers) Exists(ctx context.Context, studentID, teacherID, roundID int64) (bool, error) {
	return f.answered[answerKey{studentID, teacherID, roundID}], nil
}

func (f *fakeAnswers) Comments(ctx context.Context, teacherID, roundID int64) ([]models.Comment, error) {
	return f.comments[answerKey{0, teacherID, roundID}], nil
}

func (f *fakeAnswers) Upsert(ctx context.Context, answers []models.Answer) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, answers...)
	return nil
}

type fakeStats struct {
	mu        sync.Mutex
	calls     []string
	args      []string
	failures  map[string]error
	teacher   map[answerKey]models.TeacherAverage
	faculties map[int64][]models.FacultyAverage
	majors    map[int64][]models.MajorAverage
}

func (f *fakeStats) Recompute(ctx context.Context, procedure string, roundID int64, calculatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, procedure)
	f.args = append(f.args, calculatedBy)
	return f.failures[procedure]
}

func (f *fakeStats) TeacherAverage(ctx context.Context, teacherID, roundID int64) (*models.TeacherAverage, error) {
	if avg, ok := f.teacher[answerKey{0, teacherID, roundID}]; ok {
		return &avg, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStats) FacultyAverages(ctx context.Context, roundID int64) ([]models.FacultyAverage, error) {
	return f.faculties[roundID], nil
}

func (f *fakeStats) MajorAverages(ctx context.Context, roundID int64) ([]models.MajorAverage, error) {
	return f.majors[roundID], nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}
