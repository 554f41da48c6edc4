package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/dto"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

type identityResolver interface {
	CurrentID(ctx context.Context) (int64, bool)
}

type profileReader interface {
	Student(ctx context.Context, id int64) (*models.Student, error)
	Teacher(ctx context.Context, id int64) (*models.Teacher, error)
	Admin(ctx context.Context, id int64) (*models.Staff, error)
	Executive(ctx context.Context, id int64) (*models.Staff, error)
	Room(ctx context.Context, id int64) (*models.Room, error)
	Major(ctx context.Context, id int64) (*models.Major, error)
	Faculty(ctx context.Context, id int64) (*models.Faculty, error)
	AdvisorsByRoom(ctx context.Context, roomID int64) ([]models.Teacher, error)
}

type roundLister interface {
	List(ctx context.Context) ([]models.Round, error)
	FindByID(ctx context.Context, id int64) (*models.Round, error)
}

type answerReader interface {
	CountByRound(ctx context.Context, roundID int64) (int, error)
	Exists(ctx context.Context, studentID, teacherID, roundID int64) (bool, error)
	Comments(ctx context.Context, teacherID, roundID int64) ([]models.Comment, error)
}

type statisticsReader interface {
	TeacherAverage(ctx context.Context, teacherID, roundID int64) (*models.TeacherAverage, error)
	FacultyAverages(ctx context.Context, roundID int64) ([]models.FacultyAverage, error)
	MajorAverages(ctx context.Context, roundID int64) ([]models.MajorAverage, error)
}

// DashboardService composes the four role dashboards. Every view is assembled from
// point queries on each request; nothing is cached.
type DashboardService struct {
	identity identityResolver
	profiles profileReader
	rounds   roundLister
	answers  answerReader
	stats    statisticsReader
	logger   *zap.Logger
	now      func() time.Time
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Identity identityResolver
	Profiles profileReader
	Rounds   roundLister
	Answers  answerReader
	Stats    statisticsReader
	Logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		identity: params.Identity,
		profiles: params.Profiles,
		rounds:   params.Rounds,
		answers:  params.Answers,
		stats:    params.Stats,
		logger:   logger,
		now:      time.Now,
	}
}

// Student builds the student's profile, advisors and per-round completion flags.
func (s *DashboardService) Student(ctx context.Context) (*dto.StudentDashboard, error) {
	id, err := s.currentID(ctx)
	if err != nil {
		return nil, err
	}
	student, err := s.profiles.Student(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student profile not found")
	}

	view := &dto.StudentDashboard{
		StudentID:   student.ID,
		StudentCode: student.Code,
		Name:        student.FullName(),
		RoomName:    "-",
		MajorName:   "-",
		FacultyName: "-",
	}
	s.fillOrganisation(ctx, student.RoomID, view)

	advisors, err := s.profiles.AdvisorsByRoom(ctx, student.RoomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load advisors")
	}
	names := make([]string, len(advisors))
	for i, a := range advisors {
		names[i] = a.FullName()
	}
	view.AdvisorNames = thaifmt.JoinNames(names)

	rounds, err := s.rounds.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rounds")
	}
	now := s.now()
	view.Rounds = make([]dto.StudentRound, 0, len(rounds))
	for _, round := range rounds {
		sr := dto.StudentRound{RoundView: RoundView(round, now), Advisors: make([]dto.AdvisorProgress, 0, len(advisors))}
		for _, advisor := range advisors {
			done, err := s.answers.Exists(ctx, student.ID, advisor.ID, round.ID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation progress")
			}
			sr.Advisors = append(sr.Advisors, dto.AdvisorProgress{TeacherID: advisor.ID, Name: advisor.FullName(), Completed: done})
		}
		view.Rounds = append(view.Rounds, sr)
	}
	return view, nil
}

// fillOrganisation walks room → major → faculty. A broken link leaves the remaining
// names as "-" rather than failing the page.
func (s *DashboardService) fillOrganisation(ctx context.Context, roomID int64, view *dto.StudentDashboard) {
	room, err := s.profiles.Room(ctx, roomID)
	if err != nil {
		s.logger.Warn("room lookup failed", zap.Int64("room_id", roomID), zap.Error(err))
		return
	}
	view.RoomName = room.Name
	major, err := s.profiles.Major(ctx, room.MajorID)
	if err != nil {
		s.logger.Warn("major lookup failed", zap.Int64("major_id", room.MajorID), zap.Error(err))
		return
	}
	view.MajorName = major.Name
	faculty, err := s.profiles.Faculty(ctx, major.FacultyID)
	if err != nil {
		s.logger.Warn("faculty lookup failed", zap.Int64("faculty_id", major.FacultyID), zap.Error(err))
		return
	}
	view.FacultyName = faculty.Name
}

// Teacher builds the teacher's averages and anonymous comments per round.
func (s *DashboardService) Teacher(ctx context.Context) (*dto.TeacherDashboard, error) {
	id, err := s.currentID(ctx)
	if err != nil {
		return nil, err
	}
	teacher, err := s.profiles.Teacher(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher profile not found")
	}
	rounds, err := s.rounds.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rounds")
	}

	view := &dto.TeacherDashboard{TeacherID: teacher.ID, Name: teacher.FullName(), Rounds: make([]dto.TeacherRound, 0, len(rounds))}
	now := s.now()
	for _, round := range rounds {
		tr, err := s.teacherRound(ctx, teacher.ID, round, now)
		if err != nil {
			return nil, err
		}
		view.Rounds = append(view.Rounds, *tr)
	}
	return view, nil
}

// TeacherRound returns one round of the current teacher's results.
func (s *DashboardService) TeacherRound(ctx context.Context, roundID int64) (*dto.TeacherDashboard, error) {
	id, err := s.currentID(ctx)
	if err != nil {
		return nil, err
	}
	teacher, err := s.profiles.Teacher(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher profile not found")
	}
	round, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	tr, err := s.teacherRound(ctx, teacher.ID, *round, s.now())
	if err != nil {
		return nil, err
	}
	return &dto.TeacherDashboard{TeacherID: teacher.ID, Name: teacher.FullName(), Rounds: []dto.TeacherRound{*tr}}, nil
}

func (s *DashboardService) teacherRound(ctx context.Context, teacherID int64, round models.Round, now time.Time) (*dto.TeacherRound, error) {
	tr := &dto.TeacherRound{RoundView: RoundView(round, now)}
	avg, err := s.stats.TeacherAverage(ctx, teacherID, round.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load averages")
	default:
		tr.Average = avg
	}
	comments, err := s.answers.Comments(ctx, teacherID, round.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comments")
	}
	tr.Comments = make([]dto.CommentView, len(comments))
	for i, c := range comments {
		tr.Comments[i] = dto.CommentView{Question: c.Question, Text: c.Text, DateLabel: thaifmt.FormatDate(c.CreatedAt)}
	}
	return tr, nil
}

// Admin lists every round with its answer count plus the statistics of the selected
// round; selected 0 picks the latest round.
func (s *DashboardService) Admin(ctx context.Context, selected int64) (*dto.AdminDashboard, error) {
	id, err := s.currentID(ctx)
	if err != nil {
		return nil, err
	}
	admin, err := s.profiles.Admin(ctx, id)
	if err != nil {
		return nil, lookupError(err, "admin profile not found")
	}
	rounds, err := s.rounds.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rounds")
	}

	view := &dto.AdminDashboard{Name: admin.FullName(), Rounds: make([]dto.AdminRound, 0, len(rounds))}
	now := s.now()
	for _, round := range rounds {
		count, err := s.answers.CountByRound(ctx, round.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count answers")
		}
		view.Rounds = append(view.Rounds, dto.AdminRound{RoundView: RoundView(round, now), Answers: count})
	}
	if roundID := pickRound(rounds, selected); roundID > 0 {
		if view.Statistics, err = s.Statistics(ctx, roundID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Executive is the read-only statistics view.
func (s *DashboardService) Executive(ctx context.Context, selected int64) (*dto.ExecutiveDashboard, error) {
	id, err := s.currentID(ctx)
	if err != nil {
		return nil, err
	}
	exec, err := s.profiles.Executive(ctx, id)
	if err != nil {
		return nil, lookupError(err, "executive profile not found")
	}
	rounds, err := s.rounds.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rounds")
	}

	view := &dto.ExecutiveDashboard{Name: exec.FullName(), Rounds: make([]dto.RoundView, len(rounds))}
	now := s.now()
	for i, round := range rounds {
		view.Rounds[i] = RoundView(round, now)
	}
	if roundID := pickRound(rounds, selected); roundID > 0 {
		if view.Statistics, err = s.Statistics(ctx, roundID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Statistics returns the faculty and major roll-ups of a round.
func (s *DashboardService) Statistics(ctx context.Context, roundID int64) (*dto.Statistics, error) {
	faculties, err := s.stats.FacultyAverages(ctx, roundID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty averages")
	}
	majors, err := s.stats.MajorAverages(ctx, roundID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load major averages")
	}
	return &dto.Statistics{RoundID: roundID, Label: thaifmt.FormatRoundID(roundID), Faculties: faculties, Majors: majors}, nil
}

func (s *DashboardService) currentID(ctx context.Context) (int64, error) {
	id, ok := s.identity.CurrentID(ctx)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "session has no profile")
	}
	return id, nil
}

func (s *DashboardService) findRound(ctx context.Context, roundID int64) (*models.Round, error) {
	round, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "round not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load round")
	}
	return round, nil
}

// RoundView decorates a round with Thai labels and its status at now.
func RoundView(round models.Round, now time.Time) dto.RoundView {
	return dto.RoundView{
		RoundID:    round.ID,
		Label:      thaifmt.FormatRoundID(round.ID),
		Status:     thaifmt.RoundStatus(round.EndDate, now),
		Active:     round.Active(now),
		StartDate:  round.StartDate,
		EndDate:    round.EndDate,
		StartLabel: thaifmt.FormatDate(round.StartDate),
		EndLabel:   thaifmt.FormatDate(round.EndDate),
	}
}

// pickRound returns selected when it names a listed round, otherwise the newest one.
func pickRound(rounds []models.Round, selected int64) int64 {
	var latest int64
	for _, r := range rounds {
		if selected > 0 && r.ID == selected {
			return selected
		}
		if r.ID > latest {
			latest = r.ID
		}
	}
	return latest
}

func lookupError(err error, notFound string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
}
