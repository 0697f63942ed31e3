package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
)

// ── Mock TermRepository ──

type mockTermRepo struct {
	mu    sync.Mutex
	terms map[int]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[int]*model.Term)}
}

func (m *mockTermRepo) GetByCode(_ context.Context, termCode int) (*model.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.terms[termCode]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) GetCurrent(_ context.Context) (*model.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current *model.Term
	for _, t := range m.terms {
		if t.Status != model.TermStatusOpened {
			continue
		}
		if current == nil || t.TermCode > current.TermCode {
			current = t
		}
	}
	if current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *current
	return &cp, nil
}

func (m *mockTermRepo) List(_ context.Context) ([]model.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Term
	for _, t := range m.terms {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TermCode > result[j].TermCode })
	return result, nil
}

func (m *mockTermRepo) UpdateStatus(_ context.Context, termCode int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.terms[termCode]; ok {
		t.Status = status
	}
	return nil
}

// ── Mock CourseRepository ──
// Enforces the unique index on (term_code, crn) like the real table does.

type mockCourseRepo struct {
	mu      sync.Mutex
	nextID  int64
	byKey   map[string]*model.Course
	byID    map[int64]*model.Course
	failure error // injected on Create
	// when set, the next Create loses the race: a concurrent winner's row is
	// inserted and the call reports a duplicate key
	loseRaceOnce bool
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{byKey: make(map[string]*model.Course), byID: make(map[int64]*model.Course)}
}

func courseKey(termCode int, crn string) string { return fmt.Sprintf("%d|%s", termCode, crn) }

func (m *mockCourseRepo) insertLocked(course *model.Course) {
	m.nextID++
	course.ID = m.nextID
	cp := *course
	m.byKey[courseKey(course.TermCode, course.CRN)] = &cp
	m.byID[course.ID] = &cp
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	if m.loseRaceOnce {
		m.loseRaceOnce = false
		winner := model.NewResidencyCourse(course.TermCode)
		m.insertLocked(winner)
		return gorm.ErrDuplicatedKey
	}
	if _, ok := m.byKey[courseKey(course.TermCode, course.CRN)]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.insertLocked(course)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByTermAndCRN(_ context.Context, termCode int, crn string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byKey[courseKey(termCode, crn)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetResidency(ctx context.Context, termCode int) (*model.Course, error) {
	return m.GetByTermAndCRN(ctx, termCode, model.ResidencyCRN)
}

func (m *mockCourseRepo) ListByTerm(_ context.Context, termCode int) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Course
	for _, c := range m.byKey {
		if c.TermCode == termCode {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// ── Mock EffortTypeRepository ──

type mockEffortTypeRepo struct {
	mu    sync.Mutex
	types map[string]*model.EffortType
}

func newMockEffortTypeRepo() *mockEffortTypeRepo {
	return &mockEffortTypeRepo{types: make(map[string]*model.EffortType)}
}

func (m *mockEffortTypeRepo) add(et model.EffortType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := et
	m.types[et.ID] = &cp
}

func (m *mockEffortTypeRepo) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.types, id)
}

func (m *mockEffortTypeRepo) GetByID(_ context.Context, id string) (*model.EffortType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if et, ok := m.types[id]; ok {
		cp := *et
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEffortTypeRepo) List(_ context.Context) ([]model.EffortType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.EffortType
	for _, et := range m.types {
		result = append(result, *et)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEffortTypeRepo) FirstAllowedOnRCourses(_ context.Context) (*model.EffortType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, et := range m.types {
		if et.AllowedOnRCourses {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Strings(ids)
	cp := *m.types[ids[0]]
	return &cp, nil
}

// ── Mock EffortRecordRepository ──
// Enforces the unique index on (person_id, course_id).

type mockEffortRecordRepo struct {
	mu      sync.Mutex
	nextID  int64
	byKey   map[string]*model.EffortRecord
	failure error // injected on Create
}

func newMockEffortRecordRepo() *mockEffortRecordRepo {
	return &mockEffortRecordRepo{byKey: make(map[string]*model.EffortRecord)}
}

func recordKey(personID, courseID int64) string { return fmt.Sprintf("%d|%d", personID, courseID) }

func (m *mockEffortRecordRepo) Create(_ context.Context, record *model.EffortRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	key := recordKey(record.PersonID, record.CourseID)
	if _, ok := m.byKey[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	record.ID = m.nextID
	cp := *record
	m.byKey[key] = &cp
	return nil
}

func (m *mockEffortRecordRepo) GetByID(_ context.Context, id int64) (*model.EffortRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byKey {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEffortRecordRepo) GetByPersonAndCourse(_ context.Context, personID, courseID int64) (*model.EffortRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.byKey[recordKey(personID, courseID)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEffortRecordRepo) ListByPersonAndTerm(_ context.Context, personID int64, termCode int) ([]model.EffortRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.EffortRecord
	for _, r := range m.byKey {
		if r.PersonID == personID && r.TermCode == termCode {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockEffortRecordRepo) ListByTerm(_ context.Context, termCode int) ([]model.EffortRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.EffortRecord
	for _, r := range m.byKey {
		if r.TermCode == termCode {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockEffortRecordRepo) CountNonResidencyByPersonAndTerm(_ context.Context, personID int64, termCode int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.byKey {
		if r.PersonID == personID && r.TermCode == termCode && r.CRN != model.ResidencyCRN {
			count++
		}
	}
	return count, nil
}

func (m *mockEffortRecordRepo) all() []model.EffortRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.EffortRecord
	for _, r := range m.byKey {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	people []model.Person
}

func newMockPersonRepo() *mockPersonRepo { return &mockPersonRepo{} }

func (m *mockPersonRepo) GetByIDAndTerm(_ context.Context, personID int64, termCode int) (*model.Person, error) {
	for i := range m.people {
		if m.people[i].PersonID == personID && m.people[i].TermCode == termCode {
			cp := m.people[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) ListByTerm(_ context.Context, termCode int) ([]model.Person, error) {
	var result []model.Person
	for _, p := range m.people {
		if p.TermCode == termCode {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock PercentAssignmentRepository ──
// Enforces the unique index on (person_id, term_code).

type mockPercentRepo struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*model.PercentAssignment
}

func newMockPercentRepo() *mockPercentRepo {
	return &mockPercentRepo{byKey: make(map[string]*model.PercentAssignment)}
}

func percentKey(personID int64, termCode int) string { return fmt.Sprintf("%d|%d", personID, termCode) }

func (m *mockPercentRepo) Create(_ context.Context, assignment *model.PercentAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := percentKey(assignment.PersonID, assignment.TermCode)
	if _, ok := m.byKey[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	assignment.ID = m.nextID
	cp := *assignment
	m.byKey[key] = &cp
	return nil
}

func (m *mockPercentRepo) GetByPersonAndTerm(_ context.Context, personID int64, termCode int) (*model.PercentAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byKey[percentKey(personID, termCode)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPercentRepo) ListByTerm(_ context.Context, termCode int) ([]model.PercentAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.PercentAssignment
	for _, a := range m.byKey {
		if a.TermCode == termCode {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PersonID < result[j].PersonID })
	return result, nil
}

// ── Mock AuditRepository ──

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	failure error
}

func newMockAuditRepo() *mockAuditRepo { return &mockAuditRepo{} }

func (m *mockAuditRepo) Create(_ context.Context, entry *model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failure != nil {
		return m.failure
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) byAction(action string) []model.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AuditEntry
	for _, e := range m.entries {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

// ── Mock LeaseStore ──

type mockLeaseStore struct {
	mu         sync.Mutex
	held       map[int]string
	acquireErr error
	releases   int
}

func newMockLeaseStore() *mockLeaseStore { return &mockLeaseStore{held: make(map[int]string)} }

func (m *mockLeaseStore) AcquireHarvestLease(_ context.Context, termCode int, runID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.acquireErr != nil {
		return false, m.acquireErr
	}
	if _, ok := m.held[termCode]; ok {
		return false, nil
	}
	m.held[termCode] = runID
	return true, nil
}

func (m *mockLeaseStore) ReleaseHarvestLease(_ context.Context, termCode int, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[termCode] == runID {
		delete(m.held, termCode)
	}
	m.releases++
	return nil
}

// ── aggregate test fixture ──

type testRepos struct {
	term   *mockTermRepo
	course *mockCourseRepo
	etype  *mockEffortTypeRepo
	record *mockEffortRecordRepo
	person *mockPersonRepo
	pct    *mockPercentRepo
	audit  *mockAuditRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		term:   newMockTermRepo(),
		course: newMockCourseRepo(),
		etype:  newMockEffortTypeRepo(),
		record: newMockEffortRecordRepo(),
		person: newMockPersonRepo(),
		pct:    newMockPercentRepo(),
		audit:  newMockAuditRepo(),
	}
	repo := &repository.Repository{
		Term:         mocks.term,
		Course:       mocks.course,
		EffortType:   mocks.etype,
		EffortRecord: mocks.record,
		Person:       mocks.person,
		Percent:      mocks.pct,
		Audit:        mocks.audit,
	}
	return repo, mocks
}
