// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"skillswap/internal/auth"
	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

var skillNames = []string{
	"Guitar", "Piano", "Spanish", "French", "Japanese", "Photography", "Cooking",
	"Baking", "Yoga", "Go programming", "Python", "Web design", "Woodworking",
	"Knitting", "Gardening", "Chess", "Public speaking", "Video editing",
	"Watercolor", "Rock climbing", "Bike repair", "Calligraphy", "Salsa dancing",
}

var availabilities = []string{
	string(models.AvailabilityWeekdays),
	string(models.AvailabilityWeekends),
	string(models.AvailabilityEvenings),
	string(models.AvailabilityMornings),
	string(models.AvailabilityAnytime),
}

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	seq          int
}

// NewFactory creates a Factory. A zero seed picks a time-based one.
// With fastHash set, passwords are hashed at bcrypt's minimum cost.
func NewFactory(db *gorm.DB, seed int64, fastHash bool) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var hash string
	var err error
	if fastHash {
		var raw []byte
		raw, err = bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
		hash = string(raw)
	} else {
		hash, err = auth.HashPassword(DemoPassword)
	}
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	return &Factory{db: db, faker: gofakeit.New(seed), passwordHash: hash}, nil
}

// CreateUser persists an active public user. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	first := strings.ToLower(f.faker.FirstName())
	username := fmt.Sprintf("%s_%03d", first, f.seq)
	if len(username) > 30 {
		username = fmt.Sprintf("user_%03d", f.seq)
	}
	location := f.faker.City()
	bio := f.faker.Sentence(10)

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: f.passwordHash,
		Name:         f.faker.FirstName() + " " + f.faker.LastName(),
		Location:     &location,
		Bio:          &bio,
		Availability: models.Availability(f.faker.RandomString(availabilities)),
		Visibility:   models.VisibilityPublic,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if f.faker.Number(1, 10) == 1 {
		user.Visibility = models.VisibilityPrivate
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreateOfferedSkill persists an approved offered skill for user.
func (f *Factory) CreateOfferedSkill(user *models.User, overrides ...func(*models.SkillOffered)) (*models.SkillOffered, error) {
	description := f.faker.Sentence(8)
	skill := &models.SkillOffered{
		UserID:      user.ID,
		Name:        f.faker.RandomString(skillNames),
		Description: &description,
		Status:      models.SkillStatusApproved,
	}
	for _, override := range overrides {
		override(skill)
	}
	if err := f.db.Create(skill).Error; err != nil {
		return nil, fmt.Errorf("create offered skill: %w", err)
	}
	return skill, nil
}

// CreateWantedSkill persists a wanted skill for user.
func (f *Factory) CreateWantedSkill(user *models.User) (*models.SkillWanted, error) {
	skill := &models.SkillWanted{
		UserID: user.ID,
		Name:   f.faker.RandomString(skillNames),
	}
	if err := f.db.Create(skill).Error; err != nil {
		return nil, fmt.Errorf("create wanted skill: %w", err)
	}
	return skill, nil
}

// CreateSwap persists a swap between requester and provider in the given status.
func (f *Factory) CreateSwap(requester, provider *models.User, offered *models.SkillOffered, status models.SwapStatus) (*models.Swap, error) {
	message := f.faker.Sentence(12)
	swap := &models.Swap{
		RequesterID: requester.ID,
		ProviderID:  provider.ID,
		Message:     &message,
		Status:      status,
	}
	if offered != nil {
		swap.SkillOfferedID = &offered.ID
	}
	if status == models.SwapStatusCompleted {
		completed := time.Now().UTC().Add(-time.Duration(f.faker.Number(1, 72)) * time.Hour)
		swap.CompletedAt = &completed
	}
	if err := f.db.Create(swap).Error; err != nil {
		return nil, fmt.Errorf("create swap: %w", err)
	}
	return swap, nil
}

// CreateFeedback persists a rating from giver to receiver on a completed swap.
func (f *Factory) CreateFeedback(swap *models.Swap, giverID, receiverID uint) (*models.Feedback, error) {
	comment := f.faker.Sentence(9)
	fb := &models.Feedback{
		SwapID:     swap.ID,
		GiverID:    giverID,
		ReceiverID: receiverID,
		Rating:     float64(f.faker.Number(2, 10)) / 2,
		Comment:    &comment,
	}
	if err := f.db.Create(fb).Error; err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}
