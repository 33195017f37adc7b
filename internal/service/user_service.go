package service

import (
	"context"
	"mime"
	"strings"

	"skillswap/internal/auth"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/storage"
	"skillswap/internal/validation"
)

type UserService struct {
	users          repository.UserRepository
	photos         storage.PhotoStore
	maxUploadBytes int64
}

// UpdateProfileInput carries a partial profile update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Email        *string
	Username     *string
	Name         *string
	Location     *string
	Bio          *string
	Availability *models.Availability
	Visibility   *models.Visibility
	Password     *string
}

func NewUserService(users repository.UserRepository, photos storage.PhotoStore, maxUploadBytes int64) *UserService {
	return &UserService{users: users, photos: photos, maxUploadBytes: maxUploadBytes}
}

// GetProfile returns the caller's full profile.
func (s *UserService) GetProfile(ctx context.Context, actor *models.User) (*models.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var newEmail, newUsername string
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if email != user.Email {
			newEmail = email
		}
		user.Email = email
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if username != user.Username {
			newUsername = username
		}
		user.Username = username
	}
	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		user.Location = in.Location
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.Availability != nil {
		if err := validation.ValidateAvailability(*in.Availability); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Availability = *in.Availability
	}
	if in.Visibility != nil {
		if err := validation.ValidateVisibility(*in.Visibility); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Visibility = *in.Visibility
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := checkIdentityAvailable(ctx, s.users, newEmail, newUsername, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadPhoto stores a profile photo and records its URL on the caller's profile.
func (s *UserService) UploadPhoto(ctx context.Context, actor *models.User, contentType string, data []byte) (*models.User, error) {
	if int64(len(data)) > s.maxUploadBytes {
		return nil, models.NewPayloadTooLargeError(s.maxUploadBytes)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !storage.AllowedContentType(mediaType) {
		return nil, models.NewUnsupportedMediaTypeError(contentType)
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	url, err := s.photos.Save(ctx, storage.PhotoKey(user.ID, mediaType), mediaType, data)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.ProfilePhoto = &url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns another user's public profile. Private profiles are only
// visible to their owner and admins.
func (s *UserService) GetUser(ctx context.Context, actor *models.User, id uint) (*models.UserPublic, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Visibility == models.VisibilityPrivate && !auth.IsSelfOrAdmin(actor, user.ID) {
		return nil, models.NewForbiddenError("This profile is private")
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) Search(ctx context.Context, query string, limit, offset int) ([]models.UserPublic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("query is required")
	}
	users, err := s.users.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return models.PublicUsers(users), nil
}
