package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	repo "github.com/oksasatya/go-user-identity/internal/domain/repository"
	domainsvc "github.com/oksasatya/go-user-identity/internal/domain/service"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
	"github.com/oksasatya/go-user-identity/pkg/helpers"
	"github.com/oksasatya/go-user-identity/pkg/mailer"
)

// Service orchestrates the user aggregate: it turns commands into value
// objects, runs domain-service checks, persists through the repository,
// and only then drains and publishes the aggregate's events.
type Service struct {
	Repo         repo.UserRepository
	Domain       *domainsvc.UserDomainService
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	EventsPub    *helpers.RabbitPublisher
	MailPub      *helpers.RabbitPublisher
}

func NewService(repo repo.UserRepository, domain *domainsvc.UserDomainService, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, eventsPub, mailPub *helpers.RabbitPublisher) *Service {
	return &Service{
		Repo:         repo,
		Domain:       domain,
		JWT:          jwt,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		EventsPub:    eventsPub,
		MailPub:      mailPub,
	}
}

func viewKey(id int64) string {
	return "user:view:" + formatID(id)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Register validates input into value objects, runs the uniqueness
// pre-check, persists the new aggregate, and records the registration
// event against the assigned identity.
func (s *Service) Register(ctx context.Context, cmd RegisterUserCommand) (*entity.User, error) {
	email, err := valueobject.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	password, err := valueobject.PasswordFromPlainText(cmd.Password)
	if err != nil {
		return nil, err
	}
	var phone *valueobject.Phone
	if cmd.Phone != "" {
		p, err := valueobject.NewPhone(cmd.Phone)
		if err != nil {
			return nil, err
		}
		phone = &p
	}
	role := valueobject.RoleUser
	if cmd.Role != "" {
		role, err = valueobject.RoleFromString(cmd.Role)
		if err != nil {
			return nil, err
		}
	}

	if err := s.Domain.ValidateRegistration(ctx, email, cmd.Username); err != nil {
		return nil, err
	}

	hashed, err := password.Hash()
	if err != nil {
		return nil, err
	}

	u := entity.Register(cmd.Username, email, hashed, cmd.FirstName, cmd.LastName, phone, role)
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	saved.RecordRegistration()
	s.publishEvents(ctx, saved.DrainEvents())
	s.afterSave(ctx, saved)
	s.enqueueMail(ctx, saved.Email().Value(), "welcome", map[string]any{
		"name": saved.FullName(),
	})
	// a fresh registrant cannot log in until verified, so the token goes
	// out with the registration rather than behind an authenticated route
	if s.Redis != nil {
		if _, vErr := s.IssueEmailVerification(ctx, saved.ID()); vErr != nil && s.Logger != nil {
			s.Logger.WithError(vErr).WithField("user_id", saved.ID()).Warn("verification token issue failed")
		}
	}
	return saved, nil
}

// UpdateProfile applies the provided fields through the aggregate. A
// request that changes nothing saves nothing and emits nothing.
func (s *Service) UpdateProfile(ctx context.Context, cmd UpdateUserProfileCommand) (*entity.User, error) {
	u, err := s.findExisting(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	in := entity.UpdateProfileInput{
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		ProfileImageURL: cmd.ProfileImageURL,
		Timezone:        cmd.Timezone,
		Language:        cmd.Language,
	}
	if cmd.Phone != nil {
		p, err := valueobject.NewPhone(*cmd.Phone)
		if err != nil {
			return nil, err
		}
		in.Phone = &p
	}

	u.UpdateProfile(in)
	if len(u.PendingEvents()) == 0 {
		return u, nil // true no-op, nothing to persist
	}

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	return saved, nil
}

// ChangePassword hashes and swaps the credential; there is no no-op path.
func (s *Service) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) (*entity.User, error) {
	u, err := s.findExisting(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	password, err := valueobject.PasswordFromPlainText(cmd.NewPassword)
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash()
	if err != nil {
		return nil, err
	}

	u.ChangePassword(hashed)
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	return saved, nil
}

// Deactivate soft-deletes; repeated calls are no-ops.
func (s *Service) Deactivate(ctx context.Context, cmd DeactivateUserCommand) (*entity.User, error) {
	u, err := s.findExisting(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	u.Deactivate(cmd.Reason)
	if len(u.PendingEvents()) == 0 {
		return u, nil
	}

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	s.enqueueMail(ctx, saved.Email().Value(), "account_deactivated", map[string]any{
		"name":   saved.FullName(),
		"reason": cmd.Reason,
	})
	return saved, nil
}

// Activate reverses a deactivation; idempotent like Deactivate.
func (s *Service) Activate(ctx context.Context, cmd ActivateUserCommand) (*entity.User, error) {
	u, err := s.findExisting(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	u.Activate()
	if len(u.PendingEvents()) == 0 {
		return u, nil
	}

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	return saved, nil
}

// ChangeRole moves the user to a new role when it differs.
func (s *Service) ChangeRole(ctx context.Context, cmd ChangeRoleCommand) (*entity.User, error) {
	u, err := s.findExisting(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	role, err := valueobject.RoleFromString(cmd.Role)
	if err != nil {
		return nil, err
	}
	u.ChangeRole(role)
	if len(u.PendingEvents()) == 0 {
		return u, nil
	}

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	return saved, nil
}

// VerifyEmail marks the address verified; repeated calls are no-ops.
func (s *Service) VerifyEmail(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.findExisting(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.VerifyEmail()
	if len(u.PendingEvents()) == 0 {
		return u, nil
	}

	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)
	return saved, nil
}

// GetUser resolves a single user, trying the Redis view cache first.
func (s *Service) GetUser(ctx context.Context, q GetUserQuery) (*UserView, error) {
	if s.Redis != nil {
		var cached UserView
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, viewKey(q.UserID), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	u, err := s.findExisting(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	view := NewUserView(u)
	s.cacheView(ctx, view)
	return view, nil
}

// GetUsers lists users, narrowed by role or active flag when provided.
func (s *Service) GetUsers(ctx context.Context, q GetUsersQuery) ([]*UserView, error) {
	f := repo.ListFilter{Page: q.Page, PerPage: q.PerPage}

	var (
		users []*entity.User
		err   error
	)
	switch {
	case q.Role != "":
		role, rerr := valueobject.RoleFromString(q.Role)
		if rerr != nil {
			return nil, rerr
		}
		users, err = s.Repo.FindByRole(ctx, role, f)
	case q.IsActive != nil && *q.IsActive:
		users, err = s.Repo.FindActive(ctx, f)
	default:
		users, err = s.Repo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}
	return NewUserViews(users), nil
}

// UploadAvatar stores the image in GCS and routes the resulting URL
// through the normal profile-update path.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	objectID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", formatID(userID), objectID+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, UpdateUserProfileCommand{UserID: userID, ProfileImageURL: &url})
}

func (s *Service) findExisting(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domainerr.ErrUserNotFound
	}
	return u, nil
}

// afterSave refreshes the read-side caches. Both are best-effort.
func (s *Service) afterSave(ctx context.Context, u *entity.User) {
	view := NewUserView(u)
	s.cacheView(ctx, view)
	if err := s.indexUser(ctx, view); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("es index failed")
	}
}

func (s *Service) cacheView(ctx context.Context, view *UserView) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, viewKey(view.ID), view, time.Hour); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", view.ID).Warn("redis cache failed")
	}
}

func (s *Service) indexUser(ctx context.Context, view *UserView) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	b, _ := json.Marshal(view)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: formatID(view.ID), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", view.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers runs a multi_match query over email, username, and full
// name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *Service) enqueueMail(ctx context.Context, to, template string, data map[string]any) {
	if s.MailPub == nil {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.MailPub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("mail enqueue failed")
	}
}
