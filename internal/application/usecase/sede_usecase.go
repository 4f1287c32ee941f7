package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/validation"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// SedeUseCase casos de uso CRUD para sedes.
type SedeUseCase struct {
	repo repository.SedeRepository
}

// NewSedeUseCase construye el caso de uso.
func NewSedeUseCase(repo repository.SedeRepository) *SedeUseCase {
	return &SedeUseCase{repo: repo}
}

// Create crea una nueva sede.
func (uc *SedeUseCase) Create(ctx context.Context, in dto.CreateSedeRequest) (*dto.SedeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	sede := &entity.Sede{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// GetByID obtiene una sede por ID.
func (uc *SedeUseCase) GetByID(ctx context.Context, id string) (*dto.SedeResponse, error) {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	return toSedeResponse(sede), nil
}

// Update actualiza una sede.
func (uc *SedeUseCase) Update(ctx context.Context, id string, in dto.UpdateSedeRequest) (*dto.SedeResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		sede.Name = *in.Name
	}
	if in.Address != nil {
		sede.Address = *in.Address
	}
	sede.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// List lista sedes con paginación.
func (uc *SedeUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SedeListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SedeResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSedeResponse(s))
	}
	return &dto.SedeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toSedeResponse(s *entity.Sede) *dto.SedeResponse {
	return &dto.SedeResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
