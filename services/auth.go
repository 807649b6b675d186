package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/model"
	"github.com/cliphive/clip_api/shared"
)

type AuthService struct {
	appContext.DefaultService

	sqlSvc   *SqlService
	jwtSvc   *JWTService
	redisSvc *RedisService
	emailSvc *EmailService

	googleOAuth *oauth2.Config
}

const AUTH_SVC = "auth_svc"

const denylistKeyPrefix = "auth:denylist:"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *appContext.Context) error {
	svc.sqlSvc = ctx.Service(SQL_SVC).(*SqlService)
	svc.jwtSvc = ctx.Service(JWT_SVC).(*JWTService)
	svc.redisSvc = ctx.Service(REDIS_SVC).(*RedisService)
	svc.emailSvc = ctx.Service(EMAIL_SVC).(*EmailService)

	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		svc.googleOAuth = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	db := svc.sqlSvc.Db()

	var count int64
	db.Model(&model.User{}).
		Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Email)).
		Count(&count)
	if count > 0 {
		return nil, shared.NewValidationError([]shared.ErrorRecord{{
			Field:   "username",
			Code:    shared.CodeValidationError,
			Message: "Username or email is already taken",
		}})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	code := svc.issueVerificationCode(user.ID)
	go func() {
		if err := svc.emailSvc.SendVerificationEmail(user.Email, user.Username, code); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("Failed to send verification email")
		}
	}()

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	db := svc.sqlSvc.Db()

	var user model.User
	err := db.Where("email = ? OR username = ?",
		strings.ToLower(req.EmailOrUsername), req.EmailOrUsername).
		First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, shared.NewAuthenticationFailed("")
	}
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	if user.PasswordHash == "" {
		// Google-only account
		return nil, shared.NewAuthenticationFailed("")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, shared.NewAuthenticationFailed("")
	}

	return svc.openSession(&user, clientIP, userAgent)
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	userID, sessionID, err := svc.jwtSvc.VerifyJWTToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewAuthenticationFailed("Invalid refresh token")
	}

	db := svc.sqlSvc.Db()

	var session model.RefreshSession
	err = db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		return nil, shared.NewAuthenticationFailed("Invalid refresh token")
	}
	if session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
		return nil, shared.NewAuthenticationFailed("Refresh token has been revoked")
	}
	if session.TokenHash != hashToken(req.RefreshToken) {
		// Replayed or rotated-out token: revoke the whole session.
		now := time.Now()
		db.Model(&session).Update("revoked_at", &now)
		return nil, shared.NewAuthenticationFailed("Refresh token has been revoked")
	}

	var user model.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, shared.NewAuthenticationFailed("Invalid refresh token")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, session.ID)
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	session.TokenHash = hashToken(pair.RefreshToken)
	session.ClientIP = clientIP
	session.UserAgent = userAgent
	session.ExpiresAt = time.Now().Add(svc.jwtSvc.RefreshTokenDuration)
	if err := db.Save(&session).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	return loginResponse(&user, pair), nil
}

func (svc *AuthService) Logout(userID, sessionID, accessToken string) error {
	db := svc.sqlSvc.Db()

	now := time.Now()
	err := db.Model(&model.RefreshSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("revoked_at", &now).Error
	if err != nil {
		return shared.NewInternalError(err)
	}

	// Deny the live access token for its remaining lifetime. Best effort:
	// a dead cache only shortens the revocation, it never blocks logout.
	if accessToken != "" {
		ctx := context.Background()
		key := denylistKeyPrefix + hashToken(accessToken)
		if err := svc.redisSvc.Set(ctx, key, "1", svc.jwtSvc.AccessTokenDuration); err != nil {
			log.WithError(err).Warn("Failed to denylist access token")
		}
	}

	return nil
}

// IsTokenDenied reports whether an access token was revoked by logout.
// Fail-open on cache errors.
func (svc *AuthService) IsTokenDenied(ctx context.Context, accessToken string) bool {
	exists, err := svc.redisSvc.Exists(ctx, denylistKeyPrefix+hashToken(accessToken))
	if err != nil {
		return false
	}
	return exists
}

func (svc *AuthService) GoogleLogin(req dto.GoogleAuthRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	if svc.googleOAuth == nil {
		return nil, shared.NewAuthenticationFailed("Google login is not configured")
	}

	ctx := context.Background()

	cfg := *svc.googleOAuth
	if req.RedirectURI != "" {
		cfg.RedirectURL = req.RedirectURI
	}

	token, err := cfg.Exchange(ctx, req.Code)
	if err != nil {
		return nil, shared.NewAuthenticationFailed("Google code exchange failed")
	}

	info, err := fetchGoogleUserInfo(ctx, &cfg, token)
	if err != nil {
		return nil, shared.NewAuthenticationFailed("Failed to fetch Google profile")
	}

	user, err := svc.upsertGoogleUser(info)
	if err != nil {
		return nil, err
	}

	return svc.openSession(user, clientIP, userAgent)
}

func (svc *AuthService) VerifyEmail(email, code string) error {
	db := svc.sqlSvc.Db()

	var user model.User
	if err := db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return shared.NewNotFound("No account for that email")
	}

	var verification model.EmailVerification
	err := db.Where("user_id = ? AND code = ?", user.ID, code).
		Order("created_at DESC").First(&verification).Error
	if err != nil || time.Now().After(verification.ExpiresAt) {
		return shared.NewValidationError([]shared.ErrorRecord{{
			Field:   "code",
			Code:    shared.CodeValidationError,
			Message: "Verification code is invalid or expired",
		}})
	}

	now := time.Now()
	return db.Model(&user).
		Updates(map[string]interface{}{"email_verified": true, "verified_at": &now}).Error
}

func (svc *AuthService) openSession(user *model.User, clientIP, userAgent string) (*dto.LoginResponse, error) {
	db := svc.sqlSvc.Db()

	session := &model.RefreshSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ClientIP:  clientIP,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(svc.jwtSvc.RefreshTokenDuration),
		CreatedAt: time.Now(),
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, session.ID)
	if err != nil {
		return nil, shared.NewInternalError(err)
	}
	session.TokenHash = hashToken(pair.RefreshToken)

	if err := db.Create(session).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	return loginResponse(user, pair), nil
}

func (svc *AuthService) upsertGoogleUser(info *googleUserInfo) (*model.User, error) {
	db := svc.sqlSvc.Db()

	var user model.User
	err := db.Where("google_id = ? OR email = ?", info.ID, strings.ToLower(info.Email)).
		First(&user).Error
	if err == nil {
		if user.GoogleID == "" {
			db.Model(&user).Update("google_id", info.ID)
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, shared.NewInternalError(err)
	}

	now := time.Now()
	user = model.User{
		ID:            uuid.NewString(),
		Username:      googleUsername(info),
		Email:         strings.ToLower(info.Email),
		GoogleID:      info.ID,
		AvatarURL:     info.Picture,
		Role:          "user",
		EmailVerified: true,
		VerifiedAt:    &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}
	return &user, nil
}

func (svc *AuthService) issueVerificationCode(userID string) string {
	code := randomDigits(6)

	verification := &model.EmailVerification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	if err := svc.sqlSvc.Db().Create(verification).Error; err != nil {
		log.WithError(err).Warn("Failed to store verification code")
	}

	return code
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := shared.JSONDecoder(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func googleUsername(info *googleUserInfo) string {
	base := strings.ToLower(strings.ReplaceAll(info.Name, " ", ""))
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}

func loginResponse(user *model.User, pair *dto.TokenPair) *dto.LoginResponse {
	return &dto.LoginResponse{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
