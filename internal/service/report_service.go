package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/dto"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/export"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type reportSource interface {
	TeacherRound(ctx context.Context, roundID int64) (*dto.TeacherDashboard, error)
	Statistics(ctx context.Context, roundID int64) (*dto.Statistics, error)
}

// Report is a rendered document ready to stream.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService renders printable and downloadable reports from dashboard data.
type ReportService struct {
	source reportSource
	roles  roleResolver
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewReportService constructs a ReportService. roles decides who may render which report.
func NewReportService(source reportSource, roles roleResolver, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{source: source, roles: roles, csv: csv, pdf: pdf, logger: logger}
}

// TeacherPDF renders the current teacher's result for one round.
func (s *ReportService) TeacherPDF(ctx context.Context, roundID int64) (*Report, error) {
	if err := s.authorize(ctx, models.RoleTeacher); err != nil {
		return nil, err
	}
	view, err := s.source.TeacherRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	round := view.Rounds[0]
	data := export.Dataset{
		Headers: []string{"คำถาม", "ความคิดเห็น", "วันที่"},
		Summary: []string{view.Name, round.Label},
	}
	if round.Average != nil {
		data.Summary = append(data.Summary,
			fmt.Sprintf("คะแนนเฉลี่ย %.2f จากผู้ประเมิน %d คน", round.Average.AverageScore, round.Average.Respondents))
	} else {
		data.Summary = append(data.Summary, "ยังไม่มีผลการประมวลผล")
	}
	for _, c := range round.Comments {
		data.Rows = append(data.Rows, map[string]string{"คำถาม": c.Question, "ความคิดเห็น": c.Text, "วันที่": c.DateLabel})
	}
	body, err := s.pdf.Render(data, "รายงานผลการประเมินอาจารย์ที่ปรึกษา")
	if err != nil {
		s.logger.Error("render teacher report failed", zap.Int64("around_id", roundID), zap.Error(err))
		return nil, err
	}
	return &Report{Filename: fmt.Sprintf("teacher-report-%d.pdf", roundID), ContentType: "application/pdf", Body: body}, nil
}

// StatisticsPDF renders the faculty and major averages of a round.
func (s *ReportService) StatisticsPDF(ctx context.Context, roundID int64) (*Report, error) {
	data, err := s.statisticsDataset(ctx, roundID)
	if err != nil {
		return nil, err
	}
	body, err := s.pdf.Render(data, "สรุปผลการประเมินอาจารย์ที่ปรึกษา")
	if err != nil {
		s.logger.Error("render statistics report failed", zap.Int64("around_id", roundID), zap.Error(err))
		return nil, err
	}
	return &Report{Filename: fmt.Sprintf("statistics-%d.pdf", roundID), ContentType: "application/pdf", Body: body}, nil
}

// StatisticsCSV exports the same dataset as StatisticsPDF.
func (s *ReportService) StatisticsCSV(ctx context.Context, roundID int64) (*Report, error) {
	data, err := s.statisticsDataset(ctx, roundID)
	if err != nil {
		return nil, err
	}
	body, err := s.csv.Render(data)
	if err != nil {
		return nil, err
	}
	return &Report{Filename: fmt.Sprintf("statistics-%d.csv", roundID), ContentType: "text/csv; charset=utf-8", Body: body}, nil
}

// authorize fails unless the session resolves to one of allowed.
func (s *ReportService) authorize(ctx context.Context, allowed ...models.Role) error {
	if s.roles == nil {
		return appErrors.ErrUnauthorized
	}
	role, ok := s.roles.Resolve(ctx)
	if !ok {
		return appErrors.ErrUnauthorized
	}
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	s.logger.Warn("report denied", zap.String("role", role.String()))
	return appErrors.Clone(appErrors.ErrForbidden, "report not available for this role")
}

func (s *ReportService) statisticsDataset(ctx context.Context, roundID int64) (export.Dataset, error) {
	if err := s.authorize(ctx, models.RoleAdmin, models.RoleExecutive); err != nil {
		return export.Dataset{}, err
	}
	stats, err := s.source.Statistics(ctx, roundID)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"ระดับ", "คณะ", "สาขา", "คะแนนเฉลี่ย", "ผู้ประเมิน"},
		Summary: []string{thaifmt.FormatRoundID(roundID)},
	}
	for _, f := range stats.Faculties {
		data.Rows = append(data.Rows, map[string]string{
			"ระดับ":       "คณะ",
			"คณะ":         f.FacultyName,
			"สาขา":        "-",
			"คะแนนเฉลี่ย": strconv.FormatFloat(f.AverageScore, 'f', 2, 64),
			"ผู้ประเมิน":  strconv.Itoa(f.Respondents),
		})
	}
	for _, m := range stats.Majors {
		data.Rows = append(data.Rows, map[string]string{
			"ระดับ":       "สาขา",
			"คณะ":         m.FacultyName,
			"สาขา":        m.MajorName,
			"คะแนนเฉลี่ย": strconv.FormatFloat(m.AverageScore, 'f', 2, 64),
			"ผู้ประเมิน":  strconv.Itoa(m.Respondents),
		})
	}
	return data, nil
}
