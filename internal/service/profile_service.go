package service

import (
	"context"
	"strings"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/repository"
)

const defaultAddressLabel = "New Address"

// ProfileService сохранённые адреса и способы оплаты покупателя
type ProfileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) Addresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.Addresses(ctx, customerID)
}

func (s *ProfileService) AddAddress(ctx context.Context, customerID, label, value string, makeDefault bool) (*domain.Address, error) {
	value = strings.TrimSpace(value)
	if strings.TrimSpace(customerID) == "" || value == "" {
		return nil, ErrInvalidInput
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = defaultAddressLabel
	}
	a := &domain.Address{Label: label, Value: value, IsDefault: makeDefault}
	if err := s.repo.AddAddress(ctx, customerID, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ProfileService) SetDefaultAddress(ctx context.Context, customerID, addressID string) error {
	if strings.TrimSpace(customerID) == "" || strings.TrimSpace(addressID) == "" {
		return ErrInvalidInput
	}
	return s.repo.SetDefaultAddress(ctx, customerID, addressID)
}

func (s *ProfileService) DeleteAddress(ctx context.Context, customerID, addressID string) error {
	if strings.TrimSpace(customerID) == "" || strings.TrimSpace(addressID) == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteAddress(ctx, customerID, addressID)
}

func (s *ProfileService) PaymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.PaymentMethods(ctx, customerID)
}

func (s *ProfileService) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentID string) error {
	if strings.TrimSpace(customerID) == "" || strings.TrimSpace(paymentID) == "" {
		return ErrInvalidInput
	}
	return s.repo.SetDefaultPaymentMethod(ctx, customerID, paymentID)
}
