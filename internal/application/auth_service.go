package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

// ErrVerificationToken covers an unknown, expired, or already-used email
// verification token.
var ErrVerificationToken = errors.New("invalid or expired verification token")

// VerifyTokenTTL bounds how long an issued email verification token stays
// redeemable.
const VerifyTokenTTL = 15 * time.Minute

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResult struct {
	User *UserView
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate verifies credentials through the domain service. Unknown
// email, an account that cannot log in, and a wrong password all come back
// as ErrInvalidCredentials; nothing distinguishes them to the caller. A
// malformed email address gets the same answer so the response never
// leaks whether an account exists.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	emailVO, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, domainerr.ErrInvalidCredentials
	}
	u, err := s.Domain.AuthenticateUser(ctx, emailVO, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domainerr.ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates, records the login on the aggregate, persists it,
// publishes the drained events, and issues a token pair with a Redis
// session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u.RecordLogin()
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.publishEvents(ctx, u.DrainEvents())
	s.afterSave(ctx, saved)

	pair, err := s.IssueTokens(ctx, saved)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.enqueueMail(ctx, saved.Email().Value(), "login_notification", map[string]any{
		"name":         saved.FullName(),
		"logged_in_at": nowRFC3339(),
	})
	return &LoginResult{User: NewUserView(saved)}, pair, nil
}

// IssueTokens generates an access/refresh pair and records the session in
// Redis keyed by session id.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	uid := formatID(u.ID())
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(uid, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(uid, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(uid)
		fields := map[string]any{
			"user_id":    uid,
			"email":      u.Email().Value(),
			"username":   u.Username(),
			"role":       u.Role().String(),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and token pair when the refresh token and
// stored session still match.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", domainerr.ErrInvalidCredentials
	}
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return TokenPair{}, "", domainerr.ErrInvalidCredentials
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil || u == nil {
		return TokenPair{}, "", domainerr.ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", domainerr.ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, claims.UserID, nil
}

func verifyTokenKey(t string) string {
	return "email:verify:token:" + t
}

func newVerifyToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IssueEmailVerification stores a single-use token in Redis and enqueues
// the verification mail. An already-verified account is a no-op and
// reports issued=false.
func (s *Service) IssueEmailVerification(ctx context.Context, userID int64) (bool, error) {
	u, err := s.findExisting(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.IsVerified() {
		return false, nil
	}
	if s.Redis == nil {
		return false, errors.New("verification store unavailable")
	}

	token, err := newVerifyToken()
	if err != nil {
		return false, err
	}
	if err := s.Redis.Set(ctx, verifyTokenKey(token), formatID(userID), VerifyTokenTTL).Err(); err != nil {
		return false, err
	}

	s.enqueueMail(ctx, u.Email().Value(), "email_verification", map[string]any{
		"name": u.FullName(),
		"code": token,
	})
	return true, nil
}

// ConfirmEmailVerification resolves a token back to its account, marks the
// email verified, and burns the token.
func (s *Service) ConfirmEmailVerification(ctx context.Context, token string) (*entity.User, error) {
	if token == "" || s.Redis == nil {
		return nil, ErrVerificationToken
	}
	uid, err := s.Redis.Get(ctx, verifyTokenKey(token)).Result()
	if err != nil || uid == "" {
		return nil, ErrVerificationToken
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil, ErrVerificationToken
	}
	u, err := s.VerifyEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	if dErr := s.Redis.Del(ctx, verifyTokenKey(token)).Err(); dErr != nil && s.Logger != nil {
		s.Logger.WithError(dErr).Warn("verification token delete failed")
	}
	return u, nil
}

// Logout drops the Redis session.
func (s *Service) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}
