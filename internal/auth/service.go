package auth

import (
	"context"
	"errors"
	"time"

	"github.com/EthanLeRoux/kryvervoer/internal/db"
	"github.com/EthanLeRoux/kryvervoer/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

const minPasswordLen = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoUserData         = errors.New("no user data found for this account")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

type Service struct {
	secret   []byte
	db       db.Querier
	sessions *session.Store
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewService(secret string, querier db.Querier, sessions *session.Store) *Service {
	return &Service{
		secret:   []byte(secret),
		db:       querier,
		sessions: sessions,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, TokenResponse, error) {
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return User{}, TokenResponse{}, errors.New("email, first name and last name required")
	}
	if req.Role != session.RoleParent && req.Role != session.RoleDriver {
		return User{}, TokenResponse{}, errors.New("role must be Parent or Driver")
	}
	if len(req.Password) < minPasswordLen {
		return User{}, TokenResponse{}, ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return User{}, TokenResponse{}, errors.New("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		UID:          uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, uid, email, first_name, last_name, role, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, user.ID, user.UID, user.Email, user.FirstName, user.LastName, user.Role, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, TokenResponse{}, err
	}

	if err := s.sessions.Save(ctx, user.UID, snapshotOf(user)); err != nil {
		return User{}, TokenResponse{}, err
	}

	tokens, err := s.generateToken(user)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	if len(req.Password) < minPasswordLen {
		return User{}, TokenResponse{}, ErrPasswordTooShort
	}

	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		// Only a genuinely absent record means "no user data"; an
		// unreachable database must not read as bad credentials.
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, TokenResponse{}, ErrNoUserData
		}
		return User{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, ErrInvalidCredentials
	}

	if err := s.sessions.Save(ctx, user.UID, snapshotOf(user)); err != nil {
		return User{}, TokenResponse{}, err
	}

	tokens, err := s.generateToken(user)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// Logout clears the cached session snapshot. The caller is expected to
// redirect to the unauthenticated landing view.
func (s *Service) Logout(ctx context.Context, uid string) error {
	return s.sessions.Clear(ctx, uid)
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, uid, email, first_name, last_name, role, password_hash,
		       location_set, pfp_set, driver_profile_set,
		       COALESCE(latitude,0), COALESCE(longitude,0),
		       COALESCE(location_address,''), COALESCE(image64,''),
		       created_at, updated_at
		FROM users WHERE email = $1
	`, email)

	var user User
	err := row.Scan(&user.ID, &user.UID, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.PasswordHash, &user.LocationSet, &user.PfpSet, &user.DriverProfileSet,
		&user.Latitude, &user.Longitude, &user.LocationAddress, &user.Image64,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func snapshotOf(user User) *session.User {
	return &session.User{
		UID:              user.UID,
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Role:             user.Role,
		LocationSet:      user.LocationSet,
		PfpSet:           user.PfpSet,
		DriverProfileSet: user.DriverProfileSet,
		Latitude:         user.Latitude,
		Longitude:        user.Longitude,
		LocationAddress:  user.LocationAddress,
		Image64:          user.Image64,
	}
}

func (s *Service) generateToken(user User) (TokenResponse, error) {
	claims := Claims{
		UserID: user.UID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
