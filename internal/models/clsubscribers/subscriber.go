package clsubscribers

import (
	"errors"
	"net/mail"
	"neuronet/internal/clerrors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// EmailSubscription est une inscription à la newsletter quotidienne
type EmailSubscription struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastEmailSent *time.Time `json:"lastEmailSent,omitempty"`
}

func (EmailSubscription) TableName() string {
	return "email_subscriptions"
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Subscribe inscrit une adresse à la newsletter.
// Une adresse déjà active retourne un conflit, une adresse
// désinscrite est réactivée sur place.
func (s *Service) Subscribe(email string) (*EmailSubscription, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var existing EmailSubscription
	err = s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, clerrors.Conflict("l'adresse %s est déjà inscrite", email)
		}
		existing.IsActive = true
		if err := s.db.Model(&existing).Update("is_active", true).Error; err != nil {
			return nil, clerrors.Persistence("impossible de réactiver l'inscription", err)
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := &EmailSubscription{Email: email, IsActive: true}
		if err := s.db.Create(sub).Error; err != nil {
			// L'index unique peut claquer sous deux inscriptions concurrentes
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, clerrors.Conflict("l'adresse %s est déjà inscrite", email)
			}
			return nil, clerrors.Persistence("impossible d'enregistrer l'inscription", err)
		}
		return sub, nil
	default:
		return nil, clerrors.Persistence("impossible de vérifier l'inscription", err)
	}
}

// Unsubscribe désactive une inscription. Une adresse inconnue
// est un succès silencieux, le lien de désinscription est idempotent.
func (s *Service) Unsubscribe(email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	result := s.db.Model(&EmailSubscription{}).
		Where("email = ?", email).
		Update("is_active", false)
	if result.Error != nil {
		return clerrors.Persistence("impossible de désinscrire l'adresse", result.Error)
	}
	return nil
}

// Active retourne les inscriptions actives, les plus anciennes en premier.
func (s *Service) Active() ([]EmailSubscription, error) {
	var subs []EmailSubscription
	err := s.db.Where("is_active = ?", true).Order("created_at ASC, id ASC").Find(&subs).Error
	if err != nil {
		return nil, clerrors.Persistence("impossible de lister les inscriptions", err)
	}
	return subs, nil
}

// All retourne toutes les inscriptions, actives ou non.
func (s *Service) All() ([]EmailSubscription, error) {
	var subs []EmailSubscription
	if err := s.db.Order("created_at ASC").Find(&subs).Error; err != nil {
		return nil, clerrors.Persistence("impossible de lister les inscriptions", err)
	}
	return subs, nil
}

// MarkSent date le dernier envoi de newsletter pour une adresse.
func (s *Service) MarkSent(email string, at time.Time) error {
	err := s.db.Model(&EmailSubscription{}).
		Where("email = ?", email).
		Update("last_email_sent", at).Error
	if err != nil {
		return clerrors.Persistence("impossible de dater l'envoi", err)
	}
	return nil
}

// CountActive compte les inscriptions actives.
func (s *Service) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&EmailSubscription{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, clerrors.Persistence("impossible de compter les inscriptions", err)
	}
	return count, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", clerrors.Validation("l'email est requis")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", clerrors.Validation("email invalide: %s", email)
	}
	return email, nil
}
