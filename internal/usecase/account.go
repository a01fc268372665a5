package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/circle-app/circle-server/internal/domain"
)

const (
	minPasswordLength = 6
	// bcrypt ignores bytes past 72
	maxPasswordLength = 72
)

type RegisterInput struct {
	FullName     string
	Email        string
	Password     string
	ProfileImage *Upload
}

type ProfileInput struct {
	FullName        *string
	Username        *string
	Email           *string
	Bio             *string
	ProfileImage    *Upload
	BackgroundPhoto *Upload
}

// Session is an authenticated account together with its fresh credential.
type Session struct {
	User  domain.User
	Token string
}

type AccountUsecase struct {
	users    UserRepository
	threads  ThreadRepository
	tokens   TokenIssuer
	limiter  Limiter
	blobs    BlobStore
	hashCost int
}

func NewAccountUsecase(
	users UserRepository,
	threads ThreadRepository,
	tokens TokenIssuer,
	limiter Limiter,
	blobs BlobStore,
) *AccountUsecase {
	return &AccountUsecase{
		users:    users,
		threads:  threads,
		tokens:   tokens,
		limiter:  limiter,
		blobs:    blobs,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost used for new passwords.
func (uc *AccountUsecase) WithHashCost(cost int) *AccountUsecase {
	uc.hashCost = cost
	return uc
}

func (uc *AccountUsecase) Register(ctx context.Context, input RegisterInput) (Session, error) {
	ctx, span := tracer.Start(ctx, "Account.Usecase.Register")
	defer span.End()

	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || email == "" || input.Password == "" {
		return Session{}, domain.Validation("full name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, domain.Validation("email is not valid")
	}
	if err := checkPassword(input.Password); err != nil {
		return Session{}, err
	}

	_, err := uc.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return Session{}, domain.Conflict("email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return Session{}, err
	}

	username, err := uc.freeUsername(ctx, strings.SplitN(email, "@", 2)[0])
	if err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err != nil {
		return Session{}, err
	}

	photo, err := storeUpload(ctx, uc.blobs, domain.FolderProfile, input.ProfileImage)
	if err != nil {
		return Session{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		PhotoProfile: photo,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		return Session{}, err
	}

	created, err := uc.users.FindByID(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}

	token, err := uc.tokens.Issue(created)
	if err != nil {
		return Session{}, err
	}
	return Session{User: created, Token: token}, nil
}

// Login checks identifier (email or username) and password. Unknown accounts
// and wrong passwords fail identically.
func (uc *AccountUsecase) Login(ctx context.Context, identifier, password, clientIP string) (Session, error) {
	ctx, span := tracer.Start(ctx, "Account.Usecase.Login")
	defer span.End()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Session{}, domain.Validation("identifier and password are required")
	}

	key := "login:" + strings.ToLower(identifier) + "|" + clientIP
	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, key)
		if err != nil {
			return Session{}, domain.Dependency(err, "failed to check login attempts")
		}
		if !allowed {
			return Session{}, domain.ErrRateLimited
		}
	}

	user, err := uc.users.FindByIdentifier(ctx, identifier)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Session{}, err
	}
	if err != nil || len(password) > maxPasswordLength ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.recordFailure(ctx, key)
		return Session{}, domain.ErrInvalidCredentials
	}

	uc.recordSuccess(ctx, key)

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}

func (uc *AccountUsecase) recordFailure(ctx context.Context, key string) {
	if uc.limiter == nil {
		return
	}
	if err := uc.limiter.Failure(ctx, key); err != nil {
		slog.WarnContext(
			ctx, "failed to record login failure",
			slog.String("error", err.Error()),
			slog.String("module", "limiter"),
		)
	}
}

func (uc *AccountUsecase) recordSuccess(ctx context.Context, key string) {
	if uc.limiter == nil {
		return
	}
	if err := uc.limiter.Success(ctx, key); err != nil {
		slog.WarnContext(
			ctx, "failed to reset login attempts",
			slog.String("error", err.Error()),
			slog.String("module", "limiter"),
		)
	}
}

// Profile returns the caller's account and own threads, newest first.
func (uc *AccountUsecase) Profile(ctx context.Context, me domain.Identity) (domain.User, []domain.ThreadView, error) {
	ctx, span := tracer.Start(ctx, "Account.Usecase.Profile")
	defer span.End()

	user, err := uc.users.FindByID(ctx, me.ID)
	if err != nil {
		return domain.User{}, nil, err
	}
	threads, err := uc.threads.List(ctx, me.ID, domain.ThreadFilter{AuthorID: me.ID})
	if err != nil {
		return domain.User{}, nil, err
	}
	return user, threads, nil
}

// UpdateProfile applies the provided fields and leaves the others untouched.
func (uc *AccountUsecase) UpdateProfile(ctx context.Context, me domain.Identity, input ProfileInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Account.Usecase.UpdateProfile")
	defer span.End()

	update := domain.ProfileUpdate{Bio: input.Bio}

	if input.FullName != nil {
		v := strings.TrimSpace(*input.FullName)
		if v == "" {
			return domain.User{}, domain.Validation("full name must not be empty")
		}
		update.FullName = &v
	}
	if input.Username != nil {
		v := strings.TrimSpace(*input.Username)
		if v == "" {
			return domain.User{}, domain.Validation("username must not be empty")
		}
		// usernames share the login identifier space with emails
		if strings.Contains(v, "@") {
			return domain.User{}, domain.Validation("username must not contain @")
		}
		update.Username = &v
	}
	if input.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(v); err != nil {
			return domain.User{}, domain.Validation("email is not valid")
		}
		update.Email = &v
	}

	var err error
	if update.PhotoProfile, err = storeUpload(ctx, uc.blobs, domain.FolderProfile, input.ProfileImage); err != nil {
		return domain.User{}, err
	}
	if update.BackgroundPhoto, err = storeUpload(ctx, uc.blobs, domain.FolderBackground, input.BackgroundPhoto); err != nil {
		return domain.User{}, err
	}

	if update.Empty() {
		return uc.users.FindByID(ctx, me.ID)
	}

	user, err := uc.users.Update(ctx, me.ID, update)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}
	return user, nil
}

func (uc *AccountUsecase) freeUsername(ctx context.Context, base string) (string, error) {
	base = strings.TrimSpace(strings.ReplaceAll(base, "@", ""))
	if base == "" {
		base = "user"
	}
	candidate := base
	for range 4 {
		_, err := uc.users.FindByUsername(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + "_" + uuid.NewString()[:6]
	}
	return "", domain.Conflict("could not allocate a username")
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return domain.Validationf("password must not exceed %d characters", maxPasswordLength)
	}
	return nil
}
