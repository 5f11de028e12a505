package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/utils"
)

// CodeGenerator produces a candidate access code of the requested length.
type CodeGenerator func(n int) (string, error)

type Options struct {
	CodeLength  int
	MaxAttempts int
	Generate    CodeGenerator
}

// Service owns the mapping from access codes to resource records and the
// per-student redemptions.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	codeLength  int
	maxAttempts int
	generate    CodeGenerator
}

func NewService(db *gorm.DB, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CodeLength < utils.MinCodeLength || opts.CodeLength > utils.MaxCodeLength {
		opts.CodeLength = utils.DefaultCodeLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Generate == nil {
		opts.Generate = utils.GenerateCode
	}
	return &Service{
		db:          db,
		log:         log,
		codeLength:  opts.CodeLength,
		maxAttempts: opts.MaxAttempts,
		generate:    opts.Generate,
	}
}

func (s *Service) CodeLength() int { return s.codeLength }

// BuildFunc receives the code allocated for a new record. Material uploads use
// it to store the file under the code before the record exists.
type BuildFunc func(ctx context.Context, code string) (Payload, error)

// DiscardFunc undoes the side effects of a BuildFunc whose payload was not
// stored, for instance because the code was taken concurrently.
type DiscardFunc func(ctx context.Context, p Payload)

// Register validates p and stores a new record under a freshly generated code.
func (s *Service) Register(ctx context.Context, ownerID, title string, p Payload) (*models.Resource, error) {
	if p == nil {
		return nil, invalid("payload is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.RegisterFunc(ctx, ownerID, title, p.Kind(), func(context.Context, string) (Payload, error) {
		return p, nil
	}, nil)
}

// RegisterFunc allocates a code, asks build for the payload and stores the
// record. A code already in use is regenerated, up to the configured number
// of attempts. Errors from build are returned unchanged and nothing is stored.
// Every payload build produced that does not end up in a record is handed to
// discard, when set.
func (s *Service) RegisterFunc(ctx context.Context, ownerID, title string, kind models.ResourceKind, build BuildFunc, discard DiscardFunc) (*models.Resource, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if !kind.Valid() {
		return nil, invalid(fmt.Sprintf("unknown resource kind %q", kind))
	}
	drop := func(p Payload) {
		if discard != nil && p != nil {
			discard(ctx, p)
		}
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generate(s.codeLength)
		if err != nil {
			return nil, errors.Wrap(err, "generate access code")
		}
		taken, err := s.codeTaken(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			s.log.Warn("access code collision", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}

		p, err := build(ctx, code)
		if err != nil {
			return nil, err
		}
		if p == nil || p.Kind() != kind {
			drop(p)
			return nil, errors.Errorf("payload does not match kind %q", kind)
		}
		if err := p.Validate(); err != nil {
			drop(p)
			return nil, err
		}

		rec := models.Resource{
			Kind:       kind,
			Title:      title,
			Code:       code,
			OwnerIDRef: ownerID,
		}
		p.apply(&rec)
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			drop(p)
			if database.IsUniqueViolation(err) {
				s.log.Warn("access code taken concurrently", zap.String("code", code), zap.Int("attempt", attempt))
				continue
			}
			return nil, errors.Wrap(err, "create resource")
		}
		s.log.Info("resource registered",
			zap.String("id", rec.ID),
			zap.String("kind", string(rec.Kind)),
			zap.String("code", rec.Code),
			zap.String("owner", ownerID),
		)
		return &rec, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (s *Service) codeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Resource{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check access code")
	}
	return count > 0, nil
}

func normalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", invalid("access code is required")
	}
	return code, nil
}

// Lookup finds a record by exact access code.
func (s *Service) Lookup(ctx context.Context, code string) (*models.Resource, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	return findByCode(s.db.WithContext(ctx), code)
}

func findByCode(tx *gorm.DB, code string) (*models.Resource, error) {
	var rec models.Resource
	if err := tx.Where("code = ?", code).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, errors.Wrap(err, "lookup access code")
	}
	return &rec, nil
}

// Get finds a record by identifier.
func (s *Service) Get(ctx context.Context, id string) (*models.Resource, error) {
	var rec models.Resource
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get resource")
	}
	return &rec, nil
}

// GetOwned is Get restricted to one owner and kind; anything else is ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, id, ownerID string, kind models.ResourceKind) (*models.Resource, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OwnerIDRef != ownerID || rec.Kind != kind {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListByOwner returns the records a teacher produced, newest first by default.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, kind models.ResourceKind, opts ListOptions) ([]models.Resource, int64, error) {
	opts = opts.Normalize()
	base := s.db.WithContext(ctx).Model(&models.Resource{}).Where("owner_id_ref = ?", ownerID)
	if kind != "" {
		base = base.Where("kind = ?", kind)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count resources")
	}

	listQ := s.db.WithContext(ctx).Where("owner_id_ref = ?", ownerID).Order(opts.Order())
	if kind != "" {
		listQ = listQ.Where("kind = ?", kind)
	}
	if !opts.All {
		listQ = listQ.Offset(opts.Offset()).Limit(opts.Limit)
	}
	var items []models.Resource
	if err := listQ.Find(&items).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list resources")
	}
	return items, total, nil
}

type Outcome string

const (
	OutcomeRedeemed        Outcome = "redeemed"
	OutcomeAlreadyRedeemed Outcome = "already_redeemed"
)

type RedeemResult struct {
	Resource *models.Resource
	Outcome  Outcome
}

// Message is the notice shown to the student.
func (r RedeemResult) Message() string {
	if r.Outcome == OutcomeAlreadyRedeemed {
		return fmt.Sprintf("You already have access to this %s", r.Resource.Kind)
	}
	if r.Resource.Kind == models.KindAttendance {
		return fmt.Sprintf("Attendance marked for %q", r.Resource.Title)
	}
	return fmt.Sprintf("You now have access to %q", r.Resource.Title)
}

// Redeem attaches the record behind code to the student's personal view.
// kind, when set, restricts the lookup; a record of another kind counts as not
// found. Redeeming twice is a no-op reported as OutcomeAlreadyRedeemed.
func (s *Service) Redeem(ctx context.Context, studentID, code string, kind models.ResourceKind) (*RedeemResult, error) {
	if kind != "" && !kind.Valid() {
		return nil, invalid(fmt.Sprintf("unknown resource kind %q", kind))
	}
	rec, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if kind != "" && rec.Kind != kind {
		return nil, ErrCodeNotFound
	}
	created, err := attach(s.db.WithContext(ctx), studentID, rec.ID)
	if err != nil {
		return nil, err
	}
	res := &RedeemResult{Resource: rec, Outcome: OutcomeRedeemed}
	if !created {
		res.Outcome = OutcomeAlreadyRedeemed
	}
	s.log.Info("access code redeemed",
		zap.String("code", rec.Code),
		zap.String("student", studentID),
		zap.String("outcome", string(res.Outcome)),
	)
	return res, nil
}

func attach(tx *gorm.DB, studentID, resourceID string) (bool, error) {
	rec := models.Redemption{StudentIDRef: studentID, ResourceIDRef: resourceID}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "attach resource")
	}
	return res.RowsAffected > 0, nil
}

// IsRedeemed reports whether the student holds the resource in their view.
func (s *Service) IsRedeemed(ctx context.Context, studentID, resourceID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("student_id_ref = ? AND resource_id_ref = ?", studentID, resourceID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check redemption")
	}
	return count > 0, nil
}

// PersonalView lists what the student has redeemed, in redemption order.
func (s *Service) PersonalView(ctx context.Context, studentID string, kind models.ResourceKind) ([]models.Resource, error) {
	q := s.db.WithContext(ctx).Model(&models.Resource{}).
		Select("resources.*").
		Joins("JOIN redemptions rd ON rd.resource_id_ref = resources.id").
		Where("rd.student_id_ref = ?", studentID)
	if kind != "" {
		q = q.Where("resources.kind = ?", kind)
	}
	items := []models.Resource{}
	if err := q.Order("rd.id ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list personal view")
	}
	return items, nil
}

// CheckIn redeems an attendance code and appends the student's attendance
// mark. The session count grows once per student.
func (s *Service) CheckIn(ctx context.Context, studentID, code string) (*RedeemResult, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	var result RedeemResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := findByCode(tx, code)
		if err != nil {
			return err
		}
		if rec.Kind != models.KindAttendance {
			return ErrCodeNotFound
		}
		if _, err := attach(tx, studentID, rec.ID); err != nil {
			return err
		}
		mark := models.AttendanceMark{StudentIDRef: studentID, ResourceIDRef: rec.ID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mark)
		if res.Error != nil {
			return errors.Wrap(res.Error, "mark attendance")
		}
		result.Outcome = OutcomeAlreadyRedeemed
		if res.RowsAffected > 0 {
			result.Outcome = OutcomeRedeemed
			if err := tx.Model(&models.Resource{}).Where("id = ?", rec.ID).
				UpdateColumn("attendance_count", gorm.Expr("attendance_count + ?", 1)).Error; err != nil {
				return errors.Wrap(err, "increment attendance")
			}
			if err := tx.Where("id = ?", rec.ID).First(rec).Error; err != nil {
				return errors.Wrap(err, "reload session")
			}
		}
		result.Resource = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("attendance check-in",
		zap.String("code", code),
		zap.String("student", studentID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("count", result.Resource.AttendanceCount),
	)
	return &result, nil
}

type Attendee struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	StudentNumber string    `json:"student_number"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

// Attendees lists check-ins of a session in arrival order.
func (s *Service) Attendees(ctx context.Context, sessionID string) ([]Attendee, error) {
	rows := []Attendee{}
	err := s.db.WithContext(ctx).Table("attendance_marks AS am").
		Select("u.user_id AS user_id, u.full_name AS full_name, COALESCE(u.student_number, '') AS student_number, am.created_at AS checked_in_at").
		Joins("JOIN users u ON u.user_id = am.student_id_ref").
		Where("am.resource_id_ref = ?", sessionID).
		Order("am.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list attendees")
	}
	return rows, nil
}
