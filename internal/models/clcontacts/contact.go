package clcontacts

import (
	"net/mail"
	"neuronet/internal/clerrors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Contact est une demande envoyée via le formulaire du site
type Contact struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	FirstName       string    `gorm:"not null" json:"firstName"`
	LastName        string    `gorm:"not null" json:"lastName"`
	Email           string    `gorm:"not null" json:"email"`
	Company         string    `json:"company,omitempty"`
	ServiceInterest string    `gorm:"not null" json:"serviceInterest"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Contact) TableName() string {
	return "contacts"
}

// CreateInput porte les champs bruts du formulaire avant validation
type CreateInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	ServiceInterest string `json:"serviceInterest"`
	Message         string `json:"message"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create valide puis enregistre une demande de contact.
func (s *Service) Create(input CreateInput) (*Contact, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	input.ServiceInterest = strings.TrimSpace(input.ServiceInterest)
	input.Message = strings.TrimSpace(input.Message)

	if input.FirstName == "" {
		return nil, clerrors.Validation("le prénom est requis")
	}
	if input.LastName == "" {
		return nil, clerrors.Validation("le nom est requis")
	}
	if input.ServiceInterest == "" {
		return nil, clerrors.Validation("le service visé est requis")
	}
	if input.Message == "" {
		return nil, clerrors.Validation("le message est requis")
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	contact := &Contact{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           strings.ToLower(input.Email),
		Company:         strings.TrimSpace(input.Company),
		ServiceInterest: input.ServiceInterest,
		Message:         input.Message,
	}

	if err := s.db.Create(contact).Error; err != nil {
		return nil, clerrors.Persistence("impossible d'enregistrer le contact", err)
	}
	return contact, nil
}

// List retourne les contacts, les plus récents en premier.
func (s *Service) List() ([]Contact, error) {
	var contacts []Contact
	if err := s.db.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, clerrors.Persistence("impossible de lister les contacts", err)
	}
	return contacts, nil
}

// CountSince compte les contacts créés depuis une date donnée.
func (s *Service) CountSince(since time.Time) (int64, error) {
	var count int64
	if err := s.db.Model(&Contact{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, clerrors.Persistence("impossible de compter les contacts", err)
	}
	return count, nil
}

func validateEmail(email string) error {
	if email == "" {
		return clerrors.Validation("l'email est requis")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return clerrors.Validation("email invalide: %s", email)
	}
	return nil
}
