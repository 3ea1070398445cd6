package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

type ProductService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.ProductResponse, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]dto.ProductResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type SlotService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateSlotRequest) (*dto.SlotResponse, error)
	ListByZone(ctx context.Context, db *gorm.DB, zone string) ([]dto.SlotResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type productService struct {
	products repositories.ProductRepository
}

func NewProductService(products repositories.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &models.Product{
		UserID:   userID,
		Category: req.Category,
		Status:   req.Status,
		Stage:    req.Stage,
		Location: req.Location,
		Tags:     req.Tags,
	}
	if err := s.products.Create(db, product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]dto.ProductResponse, error) {
	products, err := s.products.FindByUserID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, dto.NewProductResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Status != nil {
		product.Status = *req.Status
	}
	if req.Stage != nil {
		product.Stage = *req.Stage
	}
	if req.Location != nil {
		product.Location = req.Location
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.products.Update(db, product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.products.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

type slotService struct {
	slots    repositories.SlotRepository
	products repositories.ProductRepository
}

func NewSlotService(slots repositories.SlotRepository, products repositories.ProductRepository) SlotService {
	return &slotService{slots: slots, products: products}
}

func (s *slotService) Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	// The slot must reference an existing product.
	if _, err := s.products.FindByID(db, req.ProductID); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	slot := &models.Slot{
		UserID:    userID,
		ProductID: req.ProductID,
		Zone:      req.Zone,
		Stage:     req.Stage,
	}
	if err := s.slots.Create(db, slot); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewSlotResponse(slot)
	return &resp, nil
}

func (s *slotService) ListByZone(ctx context.Context, db *gorm.DB, zone string) ([]dto.SlotResponse, error) {
	slots, err := s.slots.FindByZone(db, zone)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, dto.NewSlotResponse(&slots[i]))
	}
	return out, nil
}

func (s *slotService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.slots.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			return apperrors.ErrSlotNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
