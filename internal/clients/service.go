package clients

import (
	"context"
	"strings"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service exposes client CRUD.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.Client], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	Create(ctx context.Context, input CreateInput) (*models.Client, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires the clients service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.Client], error) {
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.Client]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get client")
	}
	if client == nil {
		return nil, pkgerrors.NotFound("client")
	}
	return client, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Client, error) {
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	client := &models.Client{
		FullName: name,
		Phone:    trimmed(input.Phone),
		WhatsApp: trimmed(input.WhatsApp),
		Address:  trimmed(input.Address),
		Notes:    input.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create client")
	}
	return client, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name cannot be empty")
		}
		client.FullName = name
	}
	if input.Phone != nil {
		client.Phone = trimmed(input.Phone)
	}
	if input.WhatsApp != nil {
		client.WhatsApp = trimmed(input.WhatsApp)
	}
	if input.Address != nil {
		client.Address = trimmed(input.Address)
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update client")
	}
	return client, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete client")
	}
	if !deleted {
		return pkgerrors.NotFound("client")
	}
	return nil
}

// trimmed normalises optional text, mapping blank values to nil.
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
