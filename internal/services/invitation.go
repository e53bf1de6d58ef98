package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	invitationrepo "github.com/PelicanED-online/pelicaned-backend/internal/data/repos/invitation"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/ctxutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

const (
	MsgInvalidCode  = "Invalid invitation code"
	MsgCodeExpired  = "This invitation code has expired"
	MsgLimitReached = "This invitation code has reached its usage limit"
	MsgCodeValid    = "Invitation code is valid"
)

const DefaultInvitationTokenTTL = 30 * time.Minute

// ValidationResult is the outcome of a code check. Business-rule failures are results, not errors.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// InvitationClaims is the payload of the invitation token set after a successful validation.
type InvitationClaims struct {
	InvitationCodeID uuid.UUID  `json:"id"`
	Role             string     `json:"role"`
	DistrictID       *uuid.UUID `json:"district_id"`
	SchoolID         *uuid.UUID `json:"school_id"`
	AcademicYearID   uuid.UUID  `json:"academic_year_id"`
	Code             string     `json:"code"`
	jwt.RegisteredClaims
}

type InvitationToken struct {
	Value     string
	Claims    *InvitationClaims
	ExpiresAt time.Time
}

type CreateInvitationInput struct {
	Role           string     `json:"role" validate:"required,oneof=admin district school teacher student"`
	SubjectID      *uuid.UUID `json:"subject_id"`
	DistrictID     *uuid.UUID `json:"district_id"`
	SchoolID       *uuid.UUID `json:"school_id"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	NumberOfUses   *int       `json:"number_of_uses" validate:"omitempty,min=1"`
	CodeType       string     `json:"code_type"`
}

// InvitationCodeView is a code with its derived status.
type InvitationCodeView struct {
	*types.InvitationCode
	Status invitation.Status `json:"status"`
}

type InvitationService interface {
	Validate(ctx context.Context, rawCode string) (ValidationResult, *InvitationToken, error)
	ParseToken(tokenString string) (*InvitationClaims, error)
	TokenTTL() time.Duration
	// CheckCode reports whether the code is still unexpired and under its usage limit.
	CheckCode(dbc dbctx.Context, codeID uuid.UUID) (ValidationResult, error)

	Create(ctx context.Context, in CreateInvitationInput) (*InvitationCodeView, error)
	List(ctx context.Context) ([]*InvitationCodeView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Schools lists the schools a holder of tokenString may register into.
	Schools(ctx context.Context, tokenString string) ([]*types.School, error)
}

type invitationService struct {
	db            *gorm.DB
	log           *logger.Logger
	codes         repos.InvitationCodeRepo
	uses          repos.InvitationCodeUseRepo
	academicYears repos.AcademicYearRepo
	districts     repos.DistrictRepo
	schools       repos.SchoolRepo
	registrations repos.RegistrationRepo
	metrics       *observability.Metrics
	secret        []byte
	ttl           time.Duration
	now           func() time.Time
}

func NewInvitationService(
	db *gorm.DB,
	log *logger.Logger,
	codes repos.InvitationCodeRepo,
	uses repos.InvitationCodeUseRepo,
	academicYears repos.AcademicYearRepo,
	districts repos.DistrictRepo,
	schools repos.SchoolRepo,
	registrations repos.RegistrationRepo,
	metrics *observability.Metrics,
	secret string,
	ttl time.Duration,
) InvitationService {
	if ttl <= 0 {
		ttl = DefaultInvitationTokenTTL
	}
	return &invitationService{
		db:            db,
		log:           log.With("service", "InvitationService"),
		codes:         codes,
		uses:          uses,
		academicYears: academicYears,
		districts:     districts,
		schools:       schools,
		registrations: registrations,
		metrics:       metrics,
		secret:        []byte(secret),
		ttl:           ttl,
		now:           time.Now,
	}
}

func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (s *invitationService) TokenTTL() time.Duration { return s.ttl }

func (s *invitationService) Validate(ctx context.Context, rawCode string) (ValidationResult, *InvitationToken, error) {
	dbc := dbctx.Context{Ctx: ctx}
	code := NormalizeCode(rawCode)
	if code == "" {
		s.metrics.IncInvitationValidation("invalid")
		return ValidationResult{Message: MsgInvalidCode}, nil, nil
	}

	row, err := s.codes.GetByCode(dbc, code)
	if err != nil {
		return ValidationResult{}, nil, fmt.Errorf("lookup invitation code: %w", err)
	}
	if row == nil {
		s.metrics.IncInvitationValidation("invalid")
		return ValidationResult{Message: MsgInvalidCode}, nil, nil
	}

	now := s.now().UTC()
	res, outcome, err := s.evaluate(dbc, row, now)
	if err != nil {
		return ValidationResult{}, nil, err
	}
	if !res.Valid {
		s.metrics.IncInvitationValidation(outcome)
		return res, nil, nil
	}

	tok, err := s.mint(row, now)
	if err != nil {
		return ValidationResult{}, nil, err
	}
	s.metrics.IncInvitationValidation("valid")
	s.log.Info("invitation code validated", "invitation_code_id", row.ID, "role", row.Role)
	return ValidationResult{Valid: true, Message: MsgCodeValid}, tok, nil
}

// evaluate applies the expiry and usage-limit rules to a stored code. outcome is the metric label.
func (s *invitationService) evaluate(dbc dbctx.Context, row *types.InvitationCode, now time.Time) (res ValidationResult, outcome string, err error) {
	count, err := s.uses.CountByCode(dbc, row.ID)
	if err != nil {
		return ValidationResult{}, "", fmt.Errorf("count invitation code uses: %w", err)
	}
	ay, err := s.academicYears.GetByID(dbc, row.AcademicYearID)
	if err != nil {
		return ValidationResult{}, "", fmt.Errorf("get academic year: %w", err)
	}
	if ay == nil {
		return ValidationResult{}, "", fmt.Errorf("invitation code %s references missing academic year %s", row.ID, row.AcademicYearID)
	}
	if ay.ExpiredOn(now) {
		return ValidationResult{Message: MsgCodeExpired}, "expired", nil
	}
	if row.NumberOfUses != nil && count >= int64(*row.NumberOfUses) {
		return ValidationResult{Message: MsgLimitReached}, "limit_reached", nil
	}
	return ValidationResult{Valid: true, Message: MsgCodeValid}, "valid", nil
}

// CheckCode re-applies the code rules for a token holder at registration time.
func (s *invitationService) CheckCode(dbc dbctx.Context, codeID uuid.UUID) (ValidationResult, error) {
	row, err := s.codes.GetByID(dbc, codeID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("get invitation code: %w", err)
	}
	if row == nil {
		return ValidationResult{Message: MsgInvalidCode}, nil
	}
	res, _, err := s.evaluate(dbc, row, s.now().UTC())
	return res, err
}

func (s *invitationService) mint(row *types.InvitationCode, now time.Time) (*InvitationToken, error) {
	exp := now.Add(s.ttl)
	claims := &InvitationClaims{
		InvitationCodeID: row.ID,
		Role:             row.Role,
		DistrictID:       row.DistrictID,
		SchoolID:         row.SchoolID,
		AcademicYearID:   row.AcademicYearID,
		Code:             row.Code,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign invitation token: %w", err)
	}
	return &InvitationToken{Value: signed, Claims: claims, ExpiresAt: exp}, nil
}

func (s *invitationService) ParseToken(tokenString string) (*InvitationClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, apierr.Unauthorized("invalid_invitation_token", "invitation token is missing")
	}
	claims := &InvitationClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierr.Unauthorized("invalid_invitation_token", "invitation token has expired, please validate the code again")
		}
		return nil, apierr.Unauthorized("invalid_invitation_token", "invitation token is invalid")
	}
	if claims.InvitationCodeID == uuid.Nil || claims.ID == "" {
		return nil, apierr.Unauthorized("invalid_invitation_token", "invitation token is invalid")
	}
	return claims, nil
}

func (s *invitationService) Schools(ctx context.Context, tokenString string) ([]*types.School, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if claims.SchoolID != nil {
		school, err := s.schools.GetByID(dbc, *claims.SchoolID)
		if err != nil {
			return nil, fmt.Errorf("get school: %w", err)
		}
		if school == nil {
			return []*types.School{}, nil
		}
		return []*types.School{school}, nil
	}
	if claims.DistrictID == nil {
		return []*types.School{}, nil
	}
	list, err := s.schools.ListByDistrict(dbc, *claims.DistrictID)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return list, nil
}

// roleRank orders roles by authority. A creator may only grant roles below its own,
// except admins, who may grant any role.
var roleRank = map[string]int{
	invitation.RoleStudent:  1,
	invitation.RoleTeacher:  2,
	invitation.RoleSchool:   3,
	invitation.RoleDistrict: 4,
	invitation.RoleAdmin:    5,
}

func canGrant(creatorRole, role string) bool {
	if creatorRole == invitation.RoleAdmin {
		return true
	}
	return roleRank[role] > 0 && roleRank[role] < roleRank[creatorRole]
}

func (s *invitationService) Create(ctx context.Context, in CreateInvitationInput) (*InvitationCodeView, error) {
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := validateStruct("invalid_invitation", &in); err != nil {
		return nil, err
	}
	if in.AcademicYearID == uuid.Nil {
		return nil, apierr.BadRequest("invalid_invitation", "academic_year_id is required")
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "authentication required")
	}
	if !canGrant(rd.Role, in.Role) {
		return nil, apierr.Forbidden("forbidden", fmt.Sprintf("a %s cannot create %s invitation codes", rd.Role, in.Role))
	}

	var out *InvitationCodeView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.scopeToCreator(dbc, rd, &in); err != nil {
			return err
		}
		ay, err := s.academicYears.GetByID(dbc, in.AcademicYearID)
		if err != nil {
			return fmt.Errorf("get academic year: %w", err)
		}
		if ay == nil {
			return apierr.BadRequest("invalid_invitation", "academic year not found")
		}
		if err := s.checkScope(dbc, &in); err != nil {
			return err
		}

		code, err := s.uniqueCode(dbc)
		if err != nil {
			return err
		}
		creator := rd.UserID
		row := &types.InvitationCode{
			Code:           code,
			Role:           in.Role,
			SubjectID:      in.SubjectID,
			DistrictID:     in.DistrictID,
			SchoolID:       in.SchoolID,
			AcademicYearID: in.AcademicYearID,
			NumberOfUses:   in.NumberOfUses,
			CodeType:       in.CodeType,
			CreatedBy:      &creator,
		}
		if _, err := s.codes.Create(dbc, row); err != nil {
			return fmt.Errorf("create invitation code: %w", err)
		}
		out = &InvitationCodeView{
			InvitationCode: row,
			Status:         invitation.ComputeStatus(row.NumberOfUses, 0, ay.ExpiredOn(s.now().UTC())),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("invitation code created", "invitation_code_id", out.ID, "role", out.Role, "created_by", rd.UserID)
	return out, nil
}

// scopeToCreator pins district and school to the creator's own for non-admin creators.
func (s *invitationService) scopeToCreator(dbc dbctx.Context, rd *ctxutil.RequestData, in *CreateInvitationInput) error {
	if rd.Role == invitation.RoleAdmin {
		return nil
	}
	info, err := s.registrations.GetUserInformation(dbc, rd.UserID)
	if err != nil {
		return fmt.Errorf("get creator information: %w", err)
	}
	if info == nil || info.DistrictID == nil {
		return apierr.Forbidden("forbidden", "your account is not linked to a district")
	}
	in.DistrictID = info.DistrictID
	if rd.Role != invitation.RoleDistrict {
		if info.SchoolID == nil {
			return apierr.Forbidden("forbidden", "your account is not linked to a school")
		}
		in.SchoolID = info.SchoolID
	}
	return nil
}

func (s *invitationService) checkScope(dbc dbctx.Context, in *CreateInvitationInput) error {
	if in.DistrictID != nil {
		d, err := s.districts.GetByID(dbc, *in.DistrictID)
		if err != nil {
			return fmt.Errorf("get district: %w", err)
		}
		if d == nil {
			return apierr.BadRequest("invalid_invitation", "district not found")
		}
	}
	if in.SchoolID != nil {
		school, err := s.schools.GetByID(dbc, *in.SchoolID)
		if err != nil {
			return fmt.Errorf("get school: %w", err)
		}
		if school == nil {
			return apierr.BadRequest("invalid_invitation", "school not found")
		}
		if in.DistrictID == nil {
			d := school.DistrictID
			in.DistrictID = &d
		} else if *in.DistrictID != school.DistrictID {
			return apierr.BadRequest("invalid_invitation", "school does not belong to the district")
		}
	}
	return nil
}

func (s *invitationService) uniqueCode(dbc dbctx.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		exists, err := s.codes.CodeExists(dbc, code)
		if err != nil {
			return "", fmt.Errorf("check invitation code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique invitation code")
}

// GenerateCode returns a random code of CodeLength characters from CodeAlphabet.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(invitation.CodeAlphabet)))
	b := make([]byte, invitation.CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate invitation code: %w", err)
		}
		b[i] = invitation.CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *invitationService) List(ctx context.Context) ([]*InvitationCodeView, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "authentication required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	filter := invitationrepo.ListFilter{}
	if rd.Role != invitation.RoleAdmin {
		uid := rd.UserID
		filter.CreatedBy = &uid
	}
	rows, err := s.codes.List(dbc, filter)
	if err != nil {
		return nil, fmt.Errorf("list invitation codes: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	ayIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
		ayIDs = append(ayIDs, r.AcademicYearID)
	}
	counts, err := s.uses.CountByCodes(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count invitation code uses: %w", err)
	}
	years, err := s.academicYears.GetByIDs(dbc, ayIDs)
	if err != nil {
		return nil, fmt.Errorf("get academic years: %w", err)
	}
	byID := make(map[uuid.UUID]*types.AcademicYear, len(years))
	for _, y := range years {
		byID[y.ID] = y
	}

	today := s.now().UTC()
	out := make([]*InvitationCodeView, 0, len(rows))
	for _, r := range rows {
		expired := false
		if ay := byID[r.AcademicYearID]; ay != nil {
			expired = ay.ExpiredOn(today)
		}
		out = append(out, &InvitationCodeView{
			InvitationCode: r,
			Status:         invitation.ComputeStatus(r.NumberOfUses, counts[r.ID], expired),
		})
	}
	return out, nil
}

func (s *invitationService) Delete(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", "authentication required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.codes.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get invitation code: %w", err)
		}
		if row == nil {
			return apierr.NotFound("invitation_code_not_found", "invitation code not found")
		}
		if rd.Role != invitation.RoleAdmin && (row.CreatedBy == nil || *row.CreatedBy != rd.UserID) {
			return apierr.Forbidden("forbidden", "you can only delete invitation codes you created")
		}
		n, err := s.uses.CountByCode(dbc, id)
		if err != nil {
			return fmt.Errorf("count invitation code uses: %w", err)
		}
		if n > 0 {
			return apierr.New(http.StatusConflict, "invitation_code_in_use", fmt.Errorf("invitation code has been used %d times and cannot be deleted", n))
		}
		return s.codes.Delete(dbc, id)
	})
}
