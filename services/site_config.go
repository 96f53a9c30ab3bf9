package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/database"
	"storefront/messaging"
	"storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type HomepagePatch struct {
	Slogan       *string `json:"slogan"`
	HeroImageURL *string `json:"heroImageUrl"`
}

// SiteConfigService reads and writes the config/contact and
// config/homepage singleton documents.
type SiteConfigService struct {
	store         database.Store
	log           *zap.Logger
	fallbackPhone string
	countryPrefix string
}

func NewSiteConfigService(store database.Store, log *zap.Logger, fallbackPhone, countryPrefix string) *SiteConfigService {
	return &SiteConfigService{
		store:         store,
		log:           log,
		fallbackPhone: fallbackPhone,
		countryPrefix: countryPrefix,
	}
}

func (s *SiteConfigService) get(ctx context.Context, id string) (bson.M, error) {
	doc, err := s.store.Get(ctx, database.ConfigCollection, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config/%s: %w", id, err)
	}
	return doc.Data, nil
}

func (s *SiteConfigService) Contact(ctx context.Context) (models.ContactConfig, error) {
	data, err := s.get(ctx, database.ContactDocument)
	if err != nil {
		return models.ContactConfig{}, err
	}
	return models.DecodeContact(data)
}

func (s *SiteConfigService) SaveContact(ctx context.Context, phone string) error {
	err := s.store.Set(ctx, database.ConfigCollection, database.ContactDocument,
		models.ContactConfig{BusinessPhoneNumber: phone}, true)
	if err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	return nil
}

// BusinessPhone is the normalised number orders are sent to: the saved
// contact number, else the configured fallback.
func (s *SiteConfigService) BusinessPhone(ctx context.Context) (string, error) {
	contact, err := s.Contact(ctx)
	if err != nil {
		return "", err
	}

	phone := messaging.NormalizePhone(contact.BusinessPhoneNumber, s.countryPrefix)
	if phone == "" {
		phone = messaging.NormalizePhone(s.fallbackPhone, s.countryPrefix)
	}
	if phone == "" {
		return "", ErrMissingBusinessPhone
	}
	return phone, nil
}

func (s *SiteConfigService) Homepage(ctx context.Context) (models.HomepageConfig, error) {
	data, err := s.get(ctx, database.HomepageDocument)
	if err != nil {
		return models.HomepageConfig{}, err
	}
	return models.DecodeHomepage(data)
}

func (s *SiteConfigService) SaveHomepage(ctx context.Context, patch HomepagePatch) (models.HomepageConfig, error) {
	fields := bson.M{}
	if patch.Slogan != nil {
		fields["slogan"] = *patch.Slogan
	}
	if patch.HeroImageURL != nil {
		fields["heroImageUrl"] = *patch.HeroImageURL
	}

	if err := s.store.Set(ctx, database.ConfigCollection, database.HomepageDocument, fields, true); err != nil {
		return models.HomepageConfig{}, fmt.Errorf("save homepage: %w", err)
	}
	return s.Homepage(ctx)
}

func (s *SiteConfigService) SubscribeContact(ctx context.Context) (*Feed[models.ContactConfig], error) {
	sub, err := s.store.Subscribe(ctx, database.Doc(database.ConfigCollection, database.ContactDocument))
	if err != nil {
		return nil, fmt.Errorf("subscribe contact: %w", err)
	}
	return newFeed(sub, func(snap database.Snapshot) models.ContactConfig {
		c, err := models.DecodeContact(firstData(snap))
		if err != nil {
			s.log.Warn("malformed contact config", zap.Error(err))
		}
		return c
	}), nil
}

func (s *SiteConfigService) SubscribeHomepage(ctx context.Context) (*Feed[models.HomepageConfig], error) {
	sub, err := s.store.Subscribe(ctx, database.Doc(database.ConfigCollection, database.HomepageDocument))
	if err != nil {
		return nil, fmt.Errorf("subscribe homepage: %w", err)
	}
	return newFeed(sub, func(snap database.Snapshot) models.HomepageConfig {
		h, err := models.DecodeHomepage(firstData(snap))
		if err != nil {
			s.log.Warn("malformed homepage config", zap.Error(err))
			h, _ = models.DecodeHomepage(nil)
		}
		return h
	}), nil
}

func firstData(snap database.Snapshot) bson.M {
	if len(snap.Documents) == 0 {
		return nil
	}
	return snap.Documents[0].Data
}
