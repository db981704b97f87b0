package inventoryservice

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/restock"
)

// InventoryRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type InventoryRepository interface {
	Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	FindByID(ctx context.Context, businessProfileID, id string) (domain.InventoryItem, error)
	FindAll(ctx context.Context, businessProfileID string, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
	Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	AdjustQuantity(ctx context.Context, businessProfileID, id string, delta float64) (domain.InventoryItem, error)
	Delete(ctx context.Context, businessProfileID, id string) error
}

// Service implementa as regras de negócio do estoque.
type Service struct {
	repo   InventoryRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo InventoryRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem valida e cadastra um novo item de estoque para o estabelecimento do usuário.
func (s *Service) CreateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error) {
	s.logger.Debug("Iniciando criação de item de estoque no serviço.", map[string]interface{}{"name": item.Name})

	item.Name = strings.TrimSpace(item.Name)
	if err := restock.ValidateItem(item); err != nil {
		s.logger.Warn("Falha na validação do item de estoque.", map[string]interface{}{"name": item.Name, "error": err.Error()})
		return domain.InventoryItemView{}, err
	}
	if err := validateSupplierID(item.SupplierID); err != nil {
		return domain.InventoryItemView{}, err
	}

	now := s.now()
	item.ID = uuid.New().String()
	item.BusinessProfileID = identity.BusinessProfileID
	item.CreatedBy = identity.UserID
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Error("Falha ao criar item de estoque no repositório.", err)
		return domain.InventoryItemView{}, apperror.Wrap("Falha interna ao criar item de estoque.", err)
	}

	s.logger.Info("Item de estoque criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return view(created), nil
}

// GetItem busca um item e anexa o relatório de estoque calculado.
func (s *Service) GetItem(ctx context.Context, identity domain.Identity, id string) (domain.InventoryItemView, error) {
	if err := validateID(id); err != nil {
		return domain.InventoryItemView{}, err
	}

	item, err := s.repo.FindByID(ctx, identity.BusinessProfileID, id)
	if err != nil {
		s.logger.Error("Falha ao buscar item de estoque no repositório.", err)
		return domain.InventoryItemView{}, apperror.Wrap("Falha interna ao buscar item de estoque.", err)
	}
	return view(item), nil
}

// ListItems lista o estoque com filtros. O filtro de status é derivado, então
// a paginação é aplicada em memória depois da classificação.
func (s *Service) ListItems(ctx context.Context, identity domain.Identity, filter domain.InventoryFilter) ([]domain.InventoryItemView, error) {
	s.logger.Debug("Iniciando listagem de estoque no serviço.", map[string]interface{}{
		"category": filter.Category,
		"status":   filter.Status,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewValidationError("Status inválido. Use out_of_stock, low_stock ou in_stock.")
	}
	if filter.Page < 0 || filter.Limit < 0 {
		return nil, apperror.NewValidationError("Paginação inválida.")
	}

	query := filter
	if filter.Status != "" {
		query.Page, query.Limit = 0, 0
	}

	items, err := s.repo.FindAll(ctx, identity.BusinessProfileID, query)
	if err != nil {
		s.logger.Error("Falha ao listar estoque no repositório.", err)
		return nil, apperror.Wrap("Falha interna ao listar estoque.", err)
	}

	views := make([]domain.InventoryItemView, 0, len(items))
	for _, item := range items {
		v := view(item)
		if filter.Status != "" && v.Stock.Status != filter.Status {
			continue
		}
		views = append(views, v)
	}

	if filter.Status != "" {
		views = paginate(views, filter.Page, filter.Limit)
	}

	s.logger.Info("Listagem de estoque concluída.", map[string]interface{}{"count": len(views)})
	return views, nil
}

// UpdateItem grava as alterações. A versão enviada precisa ser a atual (OCC).
func (s *Service) UpdateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error) {
	s.logger.Debug("Iniciando atualização de item de estoque no serviço.", map[string]interface{}{"id": item.ID, "version": item.Version})

	if err := validateID(item.ID); err != nil {
		return domain.InventoryItemView{}, err
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := restock.ValidateItem(item); err != nil {
		s.logger.Warn("Falha na validação do item de estoque para atualização.", map[string]interface{}{"id": item.ID, "error": err.Error()})
		return domain.InventoryItemView{}, err
	}
	if err := validateSupplierID(item.SupplierID); err != nil {
		return domain.InventoryItemView{}, err
	}
	if item.Version < 1 {
		return domain.InventoryItemView{}, apperror.NewValidationError("A versão atual do item é obrigatória para atualização.")
	}
	item.BusinessProfileID = identity.BusinessProfileID

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		s.logger.Error("Falha ao atualizar item de estoque no repositório.", err)
		return domain.InventoryItemView{}, apperror.Wrap("Falha interna ao atualizar item de estoque.", err)
	}

	s.logger.Info("Item de estoque atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "new_version": updated.Version})
	return view(updated), nil
}

// AdjustQuantity aplica um ajuste rápido (+/-) à quantidade em estoque.
func (s *Service) AdjustQuantity(ctx context.Context, identity domain.Identity, id string, adjustment domain.QuantityAdjustment) (domain.InventoryItemView, error) {
	s.logger.Debug("Iniciando ajuste de quantidade no serviço.", map[string]interface{}{"id": id, "delta": adjustment.Delta})

	if err := validateID(id); err != nil {
		return domain.InventoryItemView{}, err
	}
	if adjustment.Delta == 0 {
		return domain.InventoryItemView{}, apperror.NewValidationError("O ajuste de quantidade (delta) não pode ser zero.")
	}
	if math.IsNaN(adjustment.Delta) || math.IsInf(adjustment.Delta, 0) {
		return domain.InventoryItemView{}, apperror.NewValidationError("O ajuste de quantidade (delta) deve ser um número finito.")
	}

	updated, err := s.repo.AdjustQuantity(ctx, identity.BusinessProfileID, id, adjustment.Delta)
	if err != nil {
		s.logger.Error("Falha ao ajustar quantidade no repositório.", err)
		return domain.InventoryItemView{}, apperror.Wrap("Falha interna ao ajustar estoque.", err)
	}

	s.logger.Info("Quantidade ajustada com sucesso.", map[string]interface{}{
		"id":           updated.ID,
		"new_quantity": updated.Quantity,
		"new_version":  updated.Version,
	})
	return view(updated), nil
}

// DeleteItem remove um item de estoque.
func (s *Service) DeleteItem(ctx context.Context, identity domain.Identity, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, identity.BusinessProfileID, id); err != nil {
		s.logger.Error("Falha ao deletar item de estoque no repositório.", err)
		return apperror.Wrap("Falha interna ao deletar item de estoque.", err)
	}

	s.logger.Info("Item de estoque deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// Summary retorna as contagens por status e o valor total do estoque.
func (s *Service) Summary(ctx context.Context, identity domain.Identity) (domain.InventorySummary, error) {
	items, err := s.repo.FindAll(ctx, identity.BusinessProfileID, domain.InventoryFilter{})
	if err != nil {
		s.logger.Error("Falha ao carregar estoque para o resumo.", err)
		return domain.InventorySummary{}, apperror.Wrap("Falha interna ao resumir estoque.", err)
	}
	return restock.SummarizeInventory(items), nil
}

func view(item domain.InventoryItem) domain.InventoryItemView {
	return domain.InventoryItemView{InventoryItem: item, Stock: restock.Report(item)}
}

func paginate(views []domain.InventoryItemView, page, limit int) []domain.InventoryItemView {
	if limit <= 0 {
		return views
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(views) {
		return []domain.InventoryItemView{}
	}
	end := min(start+limit, len(views))
	return views[start:end]
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do item de estoque deve ser um UUID válido.")
	}
	return nil
}

func validateSupplierID(id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := uuid.Parse(*id); err != nil {
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	return nil
}
