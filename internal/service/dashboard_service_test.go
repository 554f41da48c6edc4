package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

var dashboardNow = time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)

func dashboardFixture(id int64) (*DashboardService, *fakeProfiles, *fakeAnswers, *fakeStats) {
	profiles := &fakeProfiles{
		students:   map[int64]models.Student{10: {ID: 10, Code: "6401001", FirstName: "Somchai", LastName: "Jaidee", RoomID: 3}},
		teachers:   map[int64]models.Teacher{20: {ID: 20, Prefix: "ดร.", FirstName: "Suda", LastName: "Rakdee"}},
		admins:     map[int64]models.Staff{1: {ID: 1, FirstName: "Anong", LastName: "Admin"}},
		executives: map[int64]models.Staff{2: {ID: 2, FirstName: "Prasit", LastName: "Dean"}},
		rooms:      map[int64]models.Room{3: {ID: 3, Name: "CPE-1", MajorID: 5}},
		majors:     map[int64]models.Major{5: {ID: 5, Name: "Computer Engineering", FacultyID: 7}},
		faculties:  map[int64]models.Faculty{7: {ID: 7, Name: "Engineering"}},
		advisors: map[int64][]models.Teacher{3: {
			{ID: 20, Prefix: "ดร.", FirstName: "Suda", LastName: "Rakdee"},
			{ID: 21, FirstName: "Anan", LastName: "Meesuk"},
		}},
	}
	rounds := &fakeRounds{rounds: []models.Round{
		{ID: 202502, StartDate: dashboardNow.Add(-24 * time.Hour), EndDate: dashboardNow.Add(24 * time.Hour)},
		{ID: 202501, StartDate: dashboardNow.Add(-90 * 24 * time.Hour), EndDate: dashboardNow.Add(-60 * 24 * time.Hour)},
	}}
	answers := &fakeAnswers{
		counts:   map[int64]int{202502: 4, 202501: 30},
		answered: map[answerKey]bool{{10, 20, 202501}: true},
		comments: map[answerKey][]models.Comment{{0, 20, 202501}: {{Question: "Feedback", Text: "helpful", CreatedAt: dashboardNow}}},
	}
	stats := &fakeStats{
		teacher:   map[answerKey]models.TeacherAverage{{0, 20, 202501}: {RoundID: 202501, TeacherID: 20, AverageScore: 4.5, Respondents: 12}},
		faculties: map[int64][]models.FacultyAverage{202502: {{RoundID: 202502, FacultyID: 7, FacultyName: "Engineering", AverageScore: 4.1}}, 202501: {{RoundID: 202501, FacultyID: 7, FacultyName: "Engineering", AverageScore: 3.9}}},
		majors:    map[int64][]models.MajorAverage{202502: {{RoundID: 202502, MajorID: 5, MajorName: "Computer Engineering", AverageScore: 4.2}}},
	}
	svc := NewDashboardService(DashboardServiceParams{
		Identity: &fakeIdentity{id: id, idOK: id > 0},
		Profiles: profiles,
		Rounds:   rounds,
		Answers:  answers,
		Stats:    stats,
		Logger:   zap.NewNop(),
	})
	svc.now = func() time.Time { return dashboardNow }
	return svc, profiles, answers, stats
}

func TestStudentDashboardJoinsProfile(t *testing.T) {
	svc, _, _, _ := dashboardFixture(10)

	view, err := svc.Student(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Somchai Jaidee", view.Name)
	assert.Equal(t, "CPE-1", view.RoomName)
	assert.Equal(t, "Computer Engineering", view.MajorName)
	assert.Equal(t, "Engineering", view.FacultyName)
	assert.Equal(t, "ดร.Suda Rakdee, Anan Meesuk", view.AdvisorNames)
}

func TestStudentDashboardCompletionFlags(t *testing.T) {
	svc, _, _, _ := dashboardFixture(10)

	view, err := svc.Student(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Rounds, 2)

	current := view.Rounds[0]
	assert.Equal(t, int64(202502), current.RoundID)
	assert.True(t, current.Active)
	assert.Equal(t, thaifmt.StatusActive, current.Status)
	for _, a := range current.Advisors {
		assert.False(t, a.Completed, "no answer row exists for advisor %d in 202502", a.TeacherID)
	}

	past := view.Rounds[1]
	assert.Equal(t, thaifmt.StatusExpired, past.Status)
	assert.Equal(t, "ภาคเรียนที่ 1 ปีการศึกษา 2568", past.Label)
	require.Len(t, past.Advisors, 2)
	assert.True(t, past.Advisors[0].Completed)
	assert.False(t, past.Advisors[1].Completed)
}

func TestStudentDashboardToleratesBrokenOrganisation(t *testing.T) {
	svc, profiles, _, _ := dashboardFixture(10)
	delete(profiles.majors, 5)

	view, err := svc.Student(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CPE-1", view.RoomName)
	assert.Equal(t, "-", view.MajorName)
	assert.Equal(t, "-", view.FacultyName)
}

func TestDashboardWithoutIdentity(t *testing.T) {
	svc, _, _, _ := dashboardFixture(0)

	_, err := svc.Student(context.Background())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestDashboardMissingProfile(t *testing.T) {
	svc, _, _, _ := dashboardFixture(99)

	_, err := svc.Teacher(context.Background())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTeacherDashboard(t *testing.T) {
	svc, _, _, _ := dashboardFixture(20)

	view, err := svc.Teacher(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ดร.Suda Rakdee", view.Name)
	require.Len(t, view.Rounds, 2)
	assert.Nil(t, view.Rounds[0].Average)
	assert.Empty(t, view.Rounds[0].Comments)
	require.NotNil(t, view.Rounds[1].Average)
	assert.InDelta(t, 4.5, view.Rounds[1].Average.AverageScore, 0.001)
	require.Len(t, view.Rounds[1].Comments, 1)
	assert.Equal(t, "helpful", view.Rounds[1].Comments[0].Text)
	assert.Equal(t, thaifmt.FormatDate(dashboardNow), view.Rounds[1].Comments[0].DateLabel)
}

func TestTeacherRoundUnknownRound(t *testing.T) {
	svc, _, _, _ := dashboardFixture(20)

	_, err := svc.TeacherRound(context.Background(), 209901)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestAdminDashboardDefaultsToLatestRound(t *testing.T) {
	svc, _, _, _ := dashboardFixture(1)

	view, err := svc.Admin(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Anong Admin", view.Name)
	require.Len(t, view.Rounds, 2)
	assert.Equal(t, 4, view.Rounds[0].Answers)
	assert.Equal(t, 30, view.Rounds[1].Answers)
	require.NotNil(t, view.Statistics)
	assert.Equal(t, int64(202502), view.Statistics.RoundID)
	assert.Len(t, view.Statistics.Majors, 1)
}

func TestExecutiveDashboardSelectsRound(t *testing.T) {
	svc, _, _, _ := dashboardFixture(2)

	view, err := svc.Executive(context.Background(), 202501)
	require.NoError(t, err)
	assert.Equal(t, "Prasit Dean", view.Name)
	require.NotNil(t, view.Statistics)
	assert.Equal(t, int64(202501), view.Statistics.RoundID)
	assert.InDelta(t, 3.9, view.Statistics.Faculties[0].AverageScore, 0.001)

	view, err = svc.Executive(context.Background(), 199901)
	require.NoError(t, err)
	assert.Equal(t, int64(202502), view.Statistics.RoundID)
}
