package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexportal_backend/internal/config"
	"lexportal_backend/internal/email"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

// =========================================================================
// Fakes
// =========================================================================

type fakeAgreementRepo struct {
	agreements map[string]*models.Agreement
	templates  map[string]*models.AgreementTemplate
	nextID     int
}

func newFakeAgreementRepo() *fakeAgreementRepo {
	return &fakeAgreementRepo{
		agreements: make(map[string]*models.Agreement),
		templates:  make(map[string]*models.AgreementTemplate),
	}
}

func (r *fakeAgreementRepo) Create(a *models.Agreement) error {
	if a.ID == "" {
		r.nextID++
		a.ID = "agr-" + strings.Repeat("0", r.nextID)
	}
	copied := *a
	r.agreements[a.ID] = &copied
	return nil
}

func (r *fakeAgreementRepo) Update(a *models.Agreement) error {
	if _, ok := r.agreements[a.ID]; !ok {
		return repositories.ErrAgreementNotFound
	}
	copied := *a
	r.agreements[a.ID] = &copied
	return nil
}

func (r *fakeAgreementRepo) FindByID(id string) (*models.Agreement, error) {
	if a, ok := r.agreements[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, repositories.ErrAgreementNotFound
}

func (r *fakeAgreementRepo) FindByToken(token string) (*models.Agreement, error) {
	for _, a := range r.agreements {
		if a.Token == token {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrAgreementNotFound
}

func (r *fakeAgreementRepo) FindByUser(userID string) ([]models.Agreement, error) {
	var out []models.Agreement
	for _, a := range r.agreements {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAgreementRepo) NewestIncompleteForUser(userID string) (*models.Agreement, error) {
	agreements, _ := r.FindByUser(userID)
	for i := range agreements {
		a := &agreements[i]
		if a.Status == models.AgreementStatusExpired {
			continue
		}
		if !a.IsCompleted() {
			return a, nil
		}
	}
	return nil, repositories.ErrAgreementNotFound
}

func (r *fakeAgreementRepo) FindWithFilter(filter repositories.AgreementFilter) ([]models.Agreement, int64, error) {
	var out []models.Agreement
	for _, a := range r.agreements {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAgreementRepo) CreateTemplate(t *models.AgreementTemplate) error {
	if t.ID == "" {
		t.ID = "tpl-1"
	}
	r.templates[t.ID] = t
	return nil
}

func (r *fakeAgreementRepo) UpdateTemplate(t *models.AgreementTemplate) error {
	r.templates[t.ID] = t
	return nil
}

func (r *fakeAgreementRepo) FindTemplateByID(id string) (*models.AgreementTemplate, error) {
	if t, ok := r.templates[id]; ok {
		return t, nil
	}
	return nil, repositories.ErrTemplateNotFound
}

func (r *fakeAgreementRepo) FindTemplates(activeOnly bool) ([]models.AgreementTemplate, error) {
	var out []models.AgreementTemplate
	for _, t := range r.templates {
		if !activeOnly || t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(address string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == address {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(u *models.User) error {
	if u.ID == "" {
		u.ID = "user-" + u.Username
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateAccountStatus(userID string, status models.AccountStatus) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.AccountStatus = status
	return nil
}

func (r *fakeUserRepo) FindClients(filter repositories.ClientFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) FindProfile(userID string) (*models.UserProfile, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) SaveProfile(profile *models.UserProfile) error { return nil }

func (r *fakeUserRepo) CreateRefreshToken(token *models.RefreshToken) error {
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*models.RefreshToken, error) {
	if t, ok := r.refreshTokens[token]; ok {
		return t, nil
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteUserRefreshTokens(userID string) error {
	for k, t := range r.refreshTokens {
		if t.UserID == userID {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

func (r *fakeUserRepo) CleanExpiredRefreshTokens() error { return nil }

// auditSpy counts recorded events instead of persisting them.
type auditSpy struct {
	events []models.AuditEventType
}

func (a *auditSpy) Record(userID *string, eventType models.AuditEventType, ctx AuditContext) {
	a.events = append(a.events, eventType)
}

func (a *auditSpy) List(filter repositories.AuditFilter) ([]dto.AuditEventResponse, int64, error) {
	return nil, 0, nil
}

func (a *auditSpy) count(eventType models.AuditEventType) int {
	n := 0
	for _, e := range a.events {
		if e == eventType {
			n++
		}
	}
	return n
}

// memStorage keeps saved files in a map.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.files[path] = data
	return nil
}

func (s *memStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(ctx context.Context, path string) error {
	delete(s.files, path)
	return nil
}

func (s *memStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := s.files[path]
	return ok, nil
}

func (s *memStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/" + path, nil
}

func (s *memStorage) GetSize(ctx context.Context, path string) (int64, error) {
	return int64(len(s.files[path])), nil
}

// =========================================================================
// Fixture
// =========================================================================

type agreementFixture struct {
	service AgreementService
	agrRepo *fakeAgreementRepo
	users   *fakeUserRepo
	audit   *auditSpy
	store   *memStorage
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upload.MaxReceiptSize = 8 * 1024 * 1024
	cfg.Upload.MaxSignatureSize = 2 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	cfg.Office.Name = "Test Law Office"
	return cfg
}

func newAgreementFixture(t *testing.T) *agreementFixture {
	t.Helper()

	agrRepo := newFakeAgreementRepo()
	users := newFakeUserRepo()
	audit := &auditSpy{}
	store := newMemStorage()

	require.NoError(t, users.Create(&models.User{
		Username:      "alice",
		Email:         "alice@example.com",
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusActive,
	}))

	service := NewAgreementService(agrRepo, users, audit, store, email.NewNoopProvider(), testConfig())

	return &agreementFixture{
		service: service,
		agrRepo: agrRepo,
		users:   users,
		audit:   audit,
		store:   store,
	}
}

func (f *agreementFixture) seedAgreement(t *testing.T, status models.AgreementStatus, paymentRequired bool) *models.Agreement {
	t.Helper()
	a := &models.Agreement{
		UserID:          "user-alice",
		Token:           strings.Repeat("ab", 32),
		OfficeName:      "Test Law Office",
		Title:           "Representation agreement",
		Status:          status,
		PaymentRequired: paymentRequired,
		PaymentMethod:   models.PaymentMethodSadad,
		PaymentAmount:   500,
	}
	require.NoError(t, f.agrRepo.Create(a))
	return a
}

func (f *agreementFixture) accountStatus(userID string) models.AccountStatus {
	return f.users.users[userID].AccountStatus
}

func pngImage(size int) *ReceiptImage {
	return &ReceiptImage{
		Reader:      bytes.NewReader(make([]byte, size)),
		ContentType: "image/png",
		Size:        int64(size),
		Filename:    "receipt.png",
	}
}

// =========================================================================
// Tests
// =========================================================================

func TestGetForUser_OwnershipDenialRecordsOneEvent(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, true)

	_, err := f.service.GetForUser(a.Token, "user-mallory", AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrAgreementAccessDenied)
	assert.Equal(t, 1, f.audit.count(models.AuditAccessDenied), "exactly one access_denied event")
	assert.Equal(t, 0, f.audit.count(models.AuditView))
}

func TestAcceptOrSign_RequiresAMechanism(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, true)

	_, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{}, AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrAcceptanceRequired)

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.Equal(t, models.AgreementStatusSent, stored.Status, "no state change on rejection")
}

func TestAcceptOrSign_CheckboxWithPaymentMovesToPaymentPending(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, true)

	resp, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{AcceptedCheckbox: true}, AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusPaymentPending), resp.Status)
	assert.False(t, resp.Completed)
	assert.Equal(t, models.AccountStatusPaymentPending, f.accountStatus("user-alice"))
	assert.Equal(t, 1, f.audit.count(models.AuditAgreementAccept))
}

func TestAcceptOrSign_NoPaymentCompletesImmediately(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, false)

	resp, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{AcceptedCheckbox: true}, AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusAccepted), resp.Status)
	assert.True(t, resp.Completed)
	assert.Equal(t, models.AccountStatusActive, f.accountStatus("user-alice"))

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.True(t, stored.AcceptedCheckbox)
	assert.NotNil(t, stored.AcceptedAt)
}

func TestAcceptOrSign_SignaturePersistedAndStatusSigned(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, false)

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	resp, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{
		SignatureData: "data:image/png;base64," + payload,
	}, AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusSigned), resp.Status)
	assert.Equal(t, 1, f.audit.count(models.AuditAgreementSign))

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.NotEmpty(t, stored.SignaturePath)
	_, saved := f.store.files[stored.SignaturePath]
	assert.True(t, saved, "signature bytes written to storage")
}

func TestAcceptOrSign_MalformedSignatureIsRecoverable(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, false)

	_, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{
		SignatureData: "%%% not base64 %%%",
	}, AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.Equal(t, models.AgreementStatusSent, stored.Status)
	assert.Empty(t, stored.SignaturePath)
}

func TestAcceptOrSign_LockedWhileUnderReview(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusUnderReview, true)

	_, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{AcceptedCheckbox: true}, AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrAgreementLocked)
}

func TestSubmitReceipt_Validation(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		image   *ReceiptImage
		wantErr error
	}{
		{"empty code", "  ", pngImage(100), apperrors.ErrReceiptCodeRequired},
		{"code with illegal chars", "abc$%^1234", pngImage(100), apperrors.ErrInvalidReceiptCode},
		{"code too short", "ab", pngImage(100), apperrors.ErrInvalidReceiptCode},
		{"missing image", "RCPT-1234", nil, apperrors.ErrReceiptImageRequired},
		{"oversized image", "RCPT-1234", pngImage(9 * 1024 * 1024), apperrors.ErrFileTooLarge},
		{
			"disallowed content type",
			"RCPT-1234",
			&ReceiptImage{Reader: bytes.NewReader([]byte("x")), ContentType: "application/pdf", Size: 1},
			apperrors.ErrInvalidFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAgreementFixture(t)
			a := f.seedAgreement(t, models.AgreementStatusPaymentPending, true)

			_, err := f.service.SubmitReceipt(context.Background(), a.Token, "user-alice", tt.code, tt.image, AuditContext{})
			assert.ErrorIs(t, err, tt.wantErr)

			stored, _ := f.agrRepo.FindByID(a.ID)
			assert.Equal(t, models.AgreementStatusPaymentPending, stored.Status, "no partial persistence")
			assert.Empty(t, stored.ClientPaymentReceipt)
			assert.Empty(t, stored.ClientReceiptImagePath)
			assert.Empty(t, f.store.files, "nothing written to storage")
		})
	}
}

func TestSubmitReceipt_HappyPath(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusPaymentPending, true)

	resp, err := f.service.SubmitReceipt(context.Background(), a.Token, "user-alice", "SDD-2026-0042", pngImage(1024), AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusUnderReview), resp.Status)
	assert.True(t, resp.Locked)

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.Equal(t, "SDD-2026-0042", stored.ClientPaymentReceipt)
	assert.NotEmpty(t, stored.ClientReceiptImagePath)
	assert.NotNil(t, stored.ClientPaidAt)
	assert.NotNil(t, stored.ClientReceiptImageAt)
	assert.Equal(t, 1, f.audit.count(models.AuditPaymentSubmit))
}

func TestSubmitReceipt_RejectedWhileLocked(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusUnderReview, true)

	_, err := f.service.SubmitReceipt(context.Background(), a.Token, "user-alice", "SDD-2026-0042", pngImage(1024), AuditContext{})
	assert.ErrorIs(t, err, apperrors.ErrAgreementLocked)
}

func TestApprovePayment_CompletesAndActivatesAccount(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusUnderReview, true)

	resp, err := f.service.ApprovePayment(a.ID, &dto.ApprovePaymentRequest{}, "staff-1", AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusPaid), resp.Status)
	assert.True(t, resp.Completed)
	assert.NotEmpty(t, resp.ReceiptNumber, "receipt number generated when absent")
	assert.NotNil(t, resp.PaidAt)
	assert.Equal(t, models.AccountStatusActive, f.accountStatus("user-alice"))
	assert.Equal(t, 1, f.audit.count(models.AuditPaymentApprove))

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.NotEmpty(t, stored.ReceiptPDFPath, "receipt pdf rendered and stored")
	_, saved := f.store.files[stored.ReceiptPDFPath]
	assert.True(t, saved)
}

func TestApprovePayment_KeepsStaffReceiptNumber(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusUnderReview, true)

	resp, err := f.service.ApprovePayment(a.ID, &dto.ApprovePaymentRequest{ReceiptNumber: "R-CUSTOM-7"}, "staff-1", AuditContext{})
	require.NoError(t, err)
	assert.Equal(t, "R-CUSTOM-7", resp.ReceiptNumber)
}

func TestApprovePayment_IllegalFromSent(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, true)

	_, err := f.service.ApprovePayment(a.ID, &dto.ApprovePaymentRequest{}, "staff-1", AuditContext{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestRejectPayment_RetainsReceiptForAudit(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusPaymentPending, true)

	_, err := f.service.SubmitReceipt(context.Background(), a.Token, "user-alice", "SDD-2026-0042", pngImage(1024), AuditContext{})
	require.NoError(t, err)

	resp, err := f.service.RejectPayment(a.ID, &dto.RejectPaymentRequest{Reason: "number mismatch"}, "staff-1", AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, string(models.AgreementStatusPaymentPending), resp.Status, "rejection reopens the payment step")

	stored, _ := f.agrRepo.FindByID(a.ID)
	assert.Equal(t, "SDD-2026-0042", stored.ClientPaymentReceipt, "prior receipt retained")
	assert.NotEmpty(t, stored.ClientReceiptImagePath)
	assert.Equal(t, 1, f.audit.count(models.AuditPaymentReject))
}

func TestIssue_CopiesTemplateAndGatesAccount(t *testing.T) {
	f := newAgreementFixture(t)
	require.NoError(t, f.agrRepo.CreateTemplate(&models.AgreementTemplate{
		Title:    "Standard representation",
		Text:     "Full agreement text.",
		IsActive: true,
	}))

	resp, err := f.service.Issue(&dto.IssueAgreementRequest{
		UserID:     "user-alice",
		TemplateID: "tpl-1",
	}, AuditContext{})
	require.NoError(t, err)

	assert.Equal(t, "Standard representation", resp.Title)
	assert.Equal(t, "Full agreement text.", resp.Text)
	assert.Len(t, resp.Token, 64, "opaque token generated")
	assert.Equal(t, string(models.AgreementStatusSent), resp.Status)
	assert.Equal(t, models.AccountStatusPendingAgreement, f.accountStatus("user-alice"))
}

func TestIssue_TitleOrTemplateRequired(t *testing.T) {
	f := newAgreementFixture(t)

	_, err := f.service.Issue(&dto.IssueAgreementRequest{UserID: "user-alice"}, AuditContext{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

// Full payable flow: checkbox acceptance, receipt submission, staff
// approval. The account status tracks every step.
func TestAgreementLifecycle_EndToEnd(t *testing.T) {
	f := newAgreementFixture(t)
	a := f.seedAgreement(t, models.AgreementStatusSent, true)
	ctx := context.Background()

	resp, err := f.service.AcceptOrSign(a.Token, "user-alice", &dto.AcceptAgreementRequest{AcceptedCheckbox: true}, AuditContext{})
	require.NoError(t, err)
	require.Equal(t, string(models.AgreementStatusPaymentPending), resp.Status)
	assert.Equal(t, models.AccountStatusPaymentPending, f.accountStatus("user-alice"))

	resp, err = f.service.SubmitReceipt(ctx, a.Token, "user-alice", "SDD-2026-0042", pngImage(1024), AuditContext{})
	require.NoError(t, err)
	require.Equal(t, string(models.AgreementStatusUnderReview), resp.Status)

	resp, err = f.service.ApprovePayment(a.ID, &dto.ApprovePaymentRequest{}, "staff-1", AuditContext{})
	require.NoError(t, err)
	assert.Equal(t, string(models.AgreementStatusPaid), resp.Status)
	assert.True(t, resp.Completed)
	assert.Equal(t, models.AccountStatusActive, f.accountStatus("user-alice"))

	pending, err := f.service.NewestIncomplete("user-alice")
	require.NoError(t, err)
	assert.Nil(t, pending, "nothing left to gate on")
}

func TestNewestIncomplete(t *testing.T) {
	t.Run("nil when all completed", func(t *testing.T) {
		f := newAgreementFixture(t)
		f.seedAgreement(t, models.AgreementStatusPaid, true)

		pending, err := f.service.NewestIncomplete("user-alice")
		require.NoError(t, err)
		assert.Nil(t, pending)
	})

	t.Run("returns the pending agreement", func(t *testing.T) {
		f := newAgreementFixture(t)
		a := f.seedAgreement(t, models.AgreementStatusPaymentPending, true)

		pending, err := f.service.NewestIncomplete("user-alice")
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, a.ID, pending.ID)
	})
}
