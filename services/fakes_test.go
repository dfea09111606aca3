package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/storage"
)

// memStore is an in-memory stand-in for the Postgres schema. Each repository
// fake is a thin view over it so joins behave like the real ListDetails.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	teams    map[int]models.Team
	students map[int]models.Student
	events   map[int]models.Event
	parts    map[int]models.Participation
	users    map[int]models.User
	settings map[models.GradeTier]models.GradeSetting
	config   map[string]string
	assets   map[string]models.SiteAsset

	failListDetails error
}

func newMemStore() *memStore {
	return &memStore{
		teams:    map[int]models.Team{},
		students: map[int]models.Student{},
		events:   map[int]models.Event{},
		parts:    map[int]models.Participation{},
		users:    map[int]models.User{},
		settings: map[models.GradeTier]models.GradeSetting{},
		config:   map[string]string{},
		assets:   map[string]models.SiteAsset{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](in map[int]V) []int {
	keys := make([]int, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// --- teams ---

type fakeTeamRepo struct{ m *memStore }

func (r fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.teams {
		if ex.Name == t.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	t.ID = r.m.id()
	t.CreatedAt = time.Now()
	r.m.teams[t.ID] = *t
	return nil
}

func (r fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (r fakeTeamRepo) List(context.Context) ([]models.Team, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.Team, 0, len(r.m.teams))
	for _, id := range sortedKeys(r.m.teams) {
		out = append(out, r.m.teams[id])
	}
	return out, nil
}

func (r fakeTeamRepo) Update(_ context.Context, t *models.Team) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.teams[t.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	ex.Name, ex.Color = t.Name, t.Color
	r.m.teams[t.ID] = ex
	return nil
}

func (r fakeTeamRepo) UpdatePenalty(_ context.Context, id, penalty int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Penalty = penalty
	r.m.teams[id] = t
	return nil
}

func (r fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, key *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = key
	r.m.teams[id] = t
	return nil
}

func (r fakeTeamRepo) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.m.teams, id)
	return nil
}

// --- students ---

type fakeStudentRepo struct{ m *memStore }

func (r fakeStudentRepo) Create(_ context.Context, s *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.students {
		if ex.ChestNumber == s.ChestNumber {
			return repositories.ErrChestNumberConflict
		}
	}
	if _, ok := r.m.teams[s.TeamID]; !ok {
		return repositories.ErrStudentTeamInvalid
	}
	s.ID = r.m.id()
	r.m.students[s.ID] = *s
	return nil
}

func (r fakeStudentRepo) GetByID(_ context.Context, id int) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.students[id]
	if !ok {
		return nil, repositories.ErrStudentNotFound
	}
	return &s, nil
}

func (r fakeStudentRepo) List(_ context.Context, f repositories.ListStudentsFilter) ([]models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Student{}
	for _, id := range sortedKeys(r.m.students) {
		s := r.m.students[id]
		if f.TeamID != nil && s.TeamID != *f.TeamID {
			continue
		}
		if f.Section != nil && s.Section != *f.Section {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r fakeStudentRepo) Update(_ context.Context, _ repositories.SQLExecutor, s *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.students[s.ID]; !ok {
		return repositories.ErrStudentNotFound
	}
	for _, ex := range r.m.students {
		if ex.ID != s.ID && ex.ChestNumber == s.ChestNumber {
			return repositories.ErrChestNumberConflict
		}
	}
	r.m.students[s.ID] = *s
	return nil
}

func (r fakeStudentRepo) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.students[id]; !ok {
		return repositories.ErrStudentNotFound
	}
	delete(r.m.students, id)
	return nil
}

func (r fakeStudentRepo) Count(context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.m.students), nil
}

// --- events ---

type fakeEventRepo struct{ m *memStore }

func (r fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.events {
		if ex.Code == e.Code {
			return repositories.ErrEventCodeConflict
		}
	}
	e.ID = r.m.id()
	r.m.events[e.ID] = *e
	return nil
}

func (r fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return &e, nil
}

func (r fakeEventRepo) List(_ context.Context, f repositories.ListEventsFilter) ([]models.Event, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Event{}
	for _, id := range sortedKeys(r.m.events) {
		e := r.m.events[id]
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		if f.GradeTier != nil && e.GradeTier != *f.GradeTier {
			continue
		}
		if f.Section != nil && !e.HasSection(*f.Section) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r fakeEventRepo) Update(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	r.m.events[e.ID] = *e
	return nil
}

func (r fakeEventRepo) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.m.events, id)
	return nil
}

// --- participations ---

type fakePartRepo struct{ m *memStore }

func (r fakePartRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.teams[p.TeamID]; !ok {
		return repositories.ErrParticipationRefInvalid
	}
	if p.StudentID != nil {
		for _, ex := range r.m.parts {
			if ex.StudentID != nil && *ex.StudentID == *p.StudentID && ex.EventID == p.EventID {
				return repositories.ErrParticipationConflict
			}
		}
	}
	if p.Attendance == "" {
		p.Attendance = models.AttendancePending
	}
	p.ID = r.m.id()
	r.m.parts[p.ID] = *p
	return nil
}

func (r fakePartRepo) GetByID(_ context.Context, id int) (*models.Participation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.parts[id]
	if !ok {
		return nil, repositories.ErrParticipationNotFound
	}
	return &p, nil
}

func (r fakePartRepo) FindByStudentAndEvent(_ context.Context, _ repositories.SQLExecutor, studentID, eventID int) (*models.Participation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.parts {
		if p.StudentID != nil && *p.StudentID == studentID && p.EventID == eventID {
			return &p, nil
		}
	}
	return nil, repositories.ErrParticipationNotFound
}

func (r fakePartRepo) CountByTeamAndEvent(_ context.Context, _ repositories.SQLExecutor, teamID, eventID int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, p := range r.m.parts {
		if p.TeamID == teamID && p.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r fakePartRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.parts[id]; !ok {
		return repositories.ErrParticipationNotFound
	}
	delete(r.m.parts, id)
	return nil
}

func (r fakePartRepo) UpdateAttendance(_ context.Context, id int, status models.AttendanceStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.parts[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	p.Attendance = status
	r.m.parts[id] = p
	return nil
}

func (r fakePartRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, pos *models.Position, grade *models.PerformanceGrade, points int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.parts[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	if points != 0 && pos == nil {
		return repositories.ErrParticipationPointsNoRank
	}
	p.ResultPosition, p.PerformanceGrade, p.PointsEarned = pos, grade, points
	r.m.parts[id] = p
	return nil
}

func (r fakePartRepo) DeleteTeamEntriesByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, p := range r.m.parts {
		if p.EventID == eventID && p.StudentID == nil {
			delete(r.m.parts, id)
			n++
		}
	}
	return n, nil
}

func (r fakePartRepo) ReassignStudentTeam(_ context.Context, _ repositories.SQLExecutor, studentID, teamID int) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, p := range r.m.parts {
		if p.StudentID != nil && *p.StudentID == studentID {
			p.TeamID = teamID
			r.m.parts[id] = p
			n++
		}
	}
	return n, nil
}

func (r fakePartRepo) ListDetails(_ context.Context, f repositories.ListParticipationsFilter) ([]models.ParticipationDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failListDetails != nil {
		return nil, r.m.failListDetails
	}
	out := []models.ParticipationDetail{}
	for _, id := range sortedKeys(r.m.parts) {
		p := r.m.parts[id]
		if f.EventID != nil && p.EventID != *f.EventID {
			continue
		}
		if f.TeamID != nil && p.TeamID != *f.TeamID {
			continue
		}
		if f.StudentID != nil && (p.StudentID == nil || *p.StudentID != *f.StudentID) {
			continue
		}
		if f.OnlyResults && p.ResultPosition == nil {
			continue
		}
		d := models.ParticipationDetail{Participation: p, Event: r.m.events[p.EventID], TeamName: r.m.teams[p.TeamID].Name}
		if p.StudentID != nil {
			s := r.m.students[*p.StudentID]
			d.Student = &s
		}
		out = append(out, d)
	}
	return out, nil
}

func (r fakePartRepo) Stats(context.Context) (repositories.ParticipationStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st := repositories.ParticipationStats{Total: len(r.m.parts)}
	for _, p := range r.m.parts {
		if p.ResultPosition != nil {
			st.ResultsDeclared++
		}
	}
	return st, nil
}

// --- tx ---

// fakeTx restores the transactional tables when fn fails, like a rolled back
// transaction.
type fakeTx struct{ m *memStore }

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (t fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.m.mu.Lock()
	parts, students, events, settings := cloneMap(t.m.parts), cloneMap(t.m.students), cloneMap(t.m.events), cloneMap(t.m.settings)
	t.m.mu.Unlock()

	if err := fn(nil); err != nil {
		t.m.mu.Lock()
		t.m.parts, t.m.students, t.m.events, t.m.settings = parts, students, events, settings
		t.m.mu.Unlock()
		return err
	}
	return nil
}

// --- settings, config, users, assets ---

type fakeGradeRepo struct{ m *memStore }

func (r fakeGradeRepo) List(context.Context) ([]models.GradeSetting, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.GradeSetting{}
	for _, tier := range models.GradeTiers {
		if s, ok := r.m.settings[tier]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r fakeGradeRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, s *models.GradeSetting) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.settings[s.GradeTier] = *s
	return nil
}

type fakeConfigRepo struct{ m *memStore }

func (r fakeConfigRepo) Get(_ context.Context, key string) (*models.AppConfigEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v, ok := r.m.config[key]
	if !ok {
		return nil, repositories.ErrConfigKeyNotFound
	}
	return &models.AppConfigEntry{Key: key, Value: v}, nil
}

func (r fakeConfigRepo) Set(_ context.Context, key, value string) (*models.AppConfigEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.config[key] = value
	return &models.AppConfigEntry{Key: key, Value: value}, nil
}

func (r fakeConfigRepo) List(context.Context) ([]models.AppConfigEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.AppConfigEntry{}
	for k, v := range r.m.config {
		out = append(out, models.AppConfigEntry{Key: k, Value: v})
	}
	return out, nil
}

type fakeUserRepo struct{ m *memStore }

func (r fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = r.m.id()
	r.m.users[u.ID] = *u
	return nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r fakeUserRepo) List(context.Context) ([]models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.User{}
	for _, id := range sortedKeys(r.m.users) {
		out = append(out, r.m.users[id])
	}
	return out, nil
}

type fakeAssetRepo struct{ m *memStore }

func (r fakeAssetRepo) Upsert(_ context.Context, a *models.SiteAsset) (*string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var prev *string
	if ex, ok := r.m.assets[a.Slot]; ok && ex.ObjectKey != a.ObjectKey {
		k := ex.ObjectKey
		prev = &k
	}
	a.ID = r.m.id()
	r.m.assets[a.Slot] = *a
	return prev, nil
}

func (r fakeAssetRepo) GetBySlot(_ context.Context, slot string) (*models.SiteAsset, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.assets[slot]
	if !ok {
		return nil, repositories.ErrAssetNotFound
	}
	return &a, nil
}

func (r fakeAssetRepo) List(context.Context) ([]models.SiteAsset, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.SiteAsset{}
	for _, a := range r.m.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (r fakeAssetRepo) Delete(_ context.Context, slot string) (*models.SiteAsset, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.assets[slot]
	if !ok {
		return nil, repositories.ErrAssetNotFound
	}
	delete(r.m.assets, slot)
	return &a, nil
}

// fakeUploader records object keys instead of talking to R2.
type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}}
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type recordingNotifier struct {
	mu      sync.Mutex
	reasons []string
}

func (n *recordingNotifier) StandingsChanged(reason string, _ *int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *recordingNotifier) Reasons() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.reasons...)
}

// env wires every service over one memStore.
type env struct {
	store    *memStore
	uploader *fakeUploader
	notifier *recordingNotifier

	auth          AuthService
	teams         TeamService
	students      StudentService
	events        EventService
	participation ParticipationService
	results       ResultService
	grades        GradeService
	config        ConfigService
	dashboard     DashboardService
	standings     StandingsService
	assets        AssetService
	exports       ExportService
}

func newEnv() *env {
	m := newMemStore()
	up := newFakeUploader()
	n := &recordingNotifier{}

	teamRepo, studentRepo, eventRepo, partRepo := fakeTeamRepo{m}, fakeStudentRepo{m}, fakeEventRepo{m}, fakePartRepo{m}
	tx := fakeTx{m}

	config := NewConfigService(fakeConfigRepo{m}, n)
	grades := NewGradeService(fakeGradeRepo{m}, partRepo, tx, n)
	dashboard := NewDashboardService(teamRepo, studentRepo, eventRepo, partRepo)
	standings := NewStandingsService(teamRepo, eventRepo, partRepo, config, dashboard)

	return &env{
		store:         m,
		uploader:      up,
		notifier:      n,
		auth:          NewAuthService(fakeUserRepo{m}, teamRepo),
		teams:         NewTeamService(teamRepo, studentRepo, up, n),
		students:      NewStudentService(studentRepo, teamRepo, partRepo, tx, n),
		events:        NewEventService(eventRepo, studentRepo, partRepo, tx, grades, n),
		participation: NewParticipationService(partRepo, studentRepo, eventRepo, teamRepo, tx, config),
		results:       NewResultService(partRepo, eventRepo, tx, grades, n),
		grades:        grades,
		config:        config,
		dashboard:     dashboard,
		standings:     standings,
		assets:        NewAssetService(fakeAssetRepo{m}, up),
		exports:       NewExportService(standings, eventRepo, partRepo, config),
	}
}

var admin = Actor{UserID: 1, Role: models.RoleAdmin}

func leaderOf(teamID int) Actor {
	return Actor{UserID: 100 + teamID, Role: models.RoleTeamLeader, TeamID: &teamID}
}

func posPtr(p models.Position) *models.Position { return &p }

func gradePtr(g models.PerformanceGrade) *models.PerformanceGrade { return &g }

func repositoriesFilterTeam(teamID int) repositories.ListStudentsFilter {
	return repositories.ListStudentsFilter{TeamID: &teamID}
}
