package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/advisor-assessment/internal/dto"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/export"
)

type stubReportSource struct {
	teacher *dto.TeacherDashboard
	stats   *dto.Statistics
	err     error
	calls   int
}

func (s *stubReportSource) TeacherRound(ctx context.Context, roundID int64) (*dto.TeacherDashboard, error) {
	s.calls++
	return s.teacher, s.err
}

func (s *stubReportSource) Statistics(ctx context.Context, roundID int64) (*dto.Statistics, error) {
	s.calls++
	return s.stats, s.err
}

func signedInAs(role models.Role) *fakeIdentity {
	return &fakeIdentity{role: role, roleOK: true, id: 5, idOK: true}
}

type capturePDF struct {
	data  export.Dataset
	title string
}

func (c *capturePDF) Render(data export.Dataset, title string) ([]byte, error) {
	c.data = data
	c.title = title
	return []byte("%PDF-stub"), nil
}

func TestStatisticsCSV(t *testing.T) {
	source := &stubReportSource{stats: &dto.Statistics{
		RoundID:   202501,
		Faculties: []models.FacultyAverage{{FacultyName: "Engineering", AverageScore: 4.256, Respondents: 40}},
		Majors:    []models.MajorAverage{{MajorName: "Computer", FacultyName: "Engineering", AverageScore: 4.1, Respondents: 20}},
	}}
	svc := NewReportService(source, signedInAs(models.RoleAdmin), nil, &capturePDF{}, nil)

	report, err := svc.StatisticsCSV(context.Background(), 202501)
	require.NoError(t, err)
	assert.Equal(t, "statistics-202501.csv", report.Filename)
	body := string(report.Body)
	assert.Contains(t, body, "Engineering,-,4.26,40")
	assert.Contains(t, body, "Engineering,Computer,4.10,20")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(body), "\n"))
}

func TestTeacherPDF(t *testing.T) {
	pdf := &capturePDF{}
	source := &stubReportSource{teacher: &dto.TeacherDashboard{
		Name: "ดร.Suda Rakdee",
		Rounds: []dto.TeacherRound{{
			RoundView: dto.RoundView{RoundID: 202501, Label: "ภาคเรียนที่ 1 ปีการศึกษา 2568"},
			Average:   &models.TeacherAverage{AverageScore: 4.5, Respondents: 12},
			Comments:  []dto.CommentView{{Question: "Feedback", Text: "helpful", DateLabel: "1 ส.ค. 2568 16:00"}},
		}},
	}}
	svc := NewReportService(source, signedInAs(models.RoleTeacher), nil, pdf, nil)

	report, err := svc.TeacherPDF(context.Background(), 202501)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "teacher-report-202501.pdf", report.Filename)
	require.Len(t, pdf.data.Rows, 1)
	assert.Contains(t, pdf.data.Summary, "ดร.Suda Rakdee")
	assert.Contains(t, strings.Join(pdf.data.Summary, " "), "4.50")
}

func TestReportPropagatesSourceError(t *testing.T) {
	svc := NewReportService(&stubReportSource{err: errors.New("boom")}, signedInAs(models.RoleAdmin), nil, &capturePDF{}, nil)
	_, err := svc.StatisticsPDF(context.Background(), 202501)
	assert.Error(t, err)
}

func TestTeacherPDFRejectsOtherRoles(t *testing.T) {
	for _, role := range []models.Role{models.RoleStudent, models.RoleAdmin, models.RoleExecutive} {
		source := &stubReportSource{teacher: &dto.TeacherDashboard{Rounds: []dto.TeacherRound{{}}}}
		svc := NewReportService(source, signedInAs(role), nil, &capturePDF{}, nil)

		_, err := svc.TeacherPDF(context.Background(), 202501)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr, role.String())
		assert.Equal(t, http.StatusForbidden, appErr.Status, role.String())
		assert.Zero(t, source.calls, "%s reached teacher data", role)
	}
}

func TestStatisticsReportsNeedStaffRole(t *testing.T) {
	stats := &dto.Statistics{RoundID: 202501}
	cases := []struct {
		name     string
		identity *fakeIdentity
		want     int
	}{
		{"no session", &fakeIdentity{}, http.StatusUnauthorized},
		{"student", signedInAs(models.RoleStudent), http.StatusForbidden},
		{"teacher", signedInAs(models.RoleTeacher), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := &stubReportSource{stats: stats}
			svc := NewReportService(source, tc.identity, nil, &capturePDF{}, nil)

			for _, render := range []func(context.Context, int64) (*Report, error){svc.StatisticsPDF, svc.StatisticsCSV} {
				_, err := render(context.Background(), 202501)
				var appErr *appErrors.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tc.want, appErr.Status)
			}
			assert.Zero(t, source.calls)
		})
	}

	source := &stubReportSource{stats: stats}
	report, err := NewReportService(source, signedInAs(models.RoleExecutive), nil, &capturePDF{}, nil).StatisticsPDF(context.Background(), 202501)
	require.NoError(t, err)
	assert.Equal(t, "statistics-202501.pdf", report.Filename)
}
