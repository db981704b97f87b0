package shoppinglistservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/restock"
)

// ShoppingListRepository define o contrato de persistência da lista de compras.
type ShoppingListRepository interface {
	FindAll(ctx context.Context, businessProfileID string) ([]domain.ShoppingListItem, error)
	FindByID(ctx context.Context, businessProfileID, id string) (domain.ShoppingListItem, error)
	Create(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error)
	CreateBatch(ctx context.Context, items []domain.ShoppingListItem) ([]domain.ShoppingListItem, error)
	Update(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error)
	SetPurchaseStates(ctx context.Context, businessProfileID string, items []domain.ShoppingListItem) error
	Delete(ctx context.Context, businessProfileID, id string) error
	DeletePurchased(ctx context.Context, businessProfileID string) (int64, error)
}

// InventoryReader é a leitura de estoque usada na geração automática.
type InventoryReader interface {
	FindAll(ctx context.Context, businessProfileID string, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio usado em AddedAt/PurchasedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service orquestra a lista de compras: lê o estado atual, aplica as regras
// puras do pacote restock e persiste apenas as linhas alteradas ou novas.
type Service struct {
	repo      ShoppingListRepository
	inventory InventoryReader
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço da Lista de Compras.
func NewService(repo ShoppingListRepository, inventory InventoryReader, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		inventory: inventory,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetList retorna todas as entradas com o resumo de progresso.
func (s *Service) GetList(ctx context.Context, identity domain.Identity) (domain.ShoppingList, error) {
	items, err := s.repo.FindAll(ctx, identity.BusinessProfileID)
	if err != nil {
		s.logger.Error("Falha ao carregar lista de compras.", err)
		return domain.ShoppingList{}, apperror.Wrap("Falha interna ao carregar lista de compras.", err)
	}
	return domain.ShoppingList{Items: items, Summary: restock.SummarizeList(items)}, nil
}

// AddItem adiciona uma entrada manual, sempre pendente.
func (s *Service) AddItem(ctx context.Context, identity domain.Identity, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	s.logger.Debug("Iniciando inclusão manual na lista de compras.", map[string]interface{}{"name": item.Name})

	item.Name = strings.TrimSpace(item.Name)
	if err := restock.ValidateListItem(item); err != nil {
		s.logger.Warn("Falha na validação do item da lista.", map[string]interface{}{"name": item.Name, "error": err.Error()})
		return domain.ShoppingListItem{}, err
	}
	if err := validateOptionalID(item.InventoryItemID, "item de estoque"); err != nil {
		return domain.ShoppingListItem{}, err
	}
	if err := validateOptionalID(item.SupplierID, "fornecedor"); err != nil {
		return domain.ShoppingListItem{}, err
	}

	item.ID = uuid.New().String()
	item.BusinessProfileID = identity.BusinessProfileID
	item.CreatedBy = identity.UserID
	item.AddedAt = s.now()
	item.IsPurchased = false
	item.PurchasedAt = nil
	item.IsAutoGenerated = false
	item.EstimatedCost = item.EstimatedCost.Round(2)

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Error("Falha ao adicionar item à lista de compras.", err)
		return domain.ShoppingListItem{}, apperror.Wrap("Falha interna ao adicionar item à lista.", err)
	}

	s.logger.Info("Item adicionado à lista de compras.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdateItem altera os campos editáveis de uma entrada existente.
func (s *Service) UpdateItem(ctx context.Context, identity domain.Identity, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	if err := validateID(item.ID); err != nil {
		return domain.ShoppingListItem{}, err
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := restock.ValidateListItem(item); err != nil {
		return domain.ShoppingListItem{}, err
	}
	if err := validateOptionalID(item.SupplierID, "fornecedor"); err != nil {
		return domain.ShoppingListItem{}, err
	}
	item.BusinessProfileID = identity.BusinessProfileID
	item.EstimatedCost = item.EstimatedCost.Round(2)

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		s.logger.Error("Falha ao atualizar item da lista de compras.", err)
		return domain.ShoppingListItem{}, apperror.Wrap("Falha interna ao atualizar item da lista.", err)
	}
	return updated, nil
}

// DeleteItem remove uma entrada da lista.
func (s *Service) DeleteItem(ctx context.Context, identity domain.Identity, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, identity.BusinessProfileID, id); err != nil {
		s.logger.Error("Falha ao remover item da lista de compras.", err)
		return apperror.Wrap("Falha interna ao remover item da lista.", err)
	}
	return nil
}

// TogglePurchased alterna o estado de compra de uma entrada.
func (s *Service) TogglePurchased(ctx context.Context, identity domain.Identity, id string) (domain.ShoppingListItem, error) {
	if err := validateID(id); err != nil {
		return domain.ShoppingListItem{}, err
	}

	current, err := s.repo.FindByID(ctx, identity.BusinessProfileID, id)
	if err != nil {
		return domain.ShoppingListItem{}, apperror.Wrap("Falha interna ao buscar item da lista.", err)
	}

	toggled, err := restock.TogglePurchased([]domain.ShoppingListItem{current}, id, s.now())
	if err != nil {
		return domain.ShoppingListItem{}, err
	}

	if err := s.repo.SetPurchaseStates(ctx, identity.BusinessProfileID, toggled); err != nil {
		s.logger.Error("Falha ao persistir estado de compra.", err)
		return domain.ShoppingListItem{}, apperror.Wrap("Falha interna ao marcar item.", err)
	}

	s.logger.Info("Estado de compra alternado.", map[string]interface{}{"id": id, "is_purchased": toggled[0].IsPurchased})
	return toggled[0], nil
}

// MarkAllPurchased marca todas as entradas pendentes como compradas.
// Entradas já compradas mantêm o PurchasedAt original.
func (s *Service) MarkAllPurchased(ctx context.Context, identity domain.Identity) (domain.ShoppingList, error) {
	items, err := s.repo.FindAll(ctx, identity.BusinessProfileID)
	if err != nil {
		return domain.ShoppingList{}, apperror.Wrap("Falha interna ao carregar lista de compras.", err)
	}

	updated := restock.MarkAllPurchased(items, s.now())

	changed := []domain.ShoppingListItem{}
	for i := range updated {
		if !items[i].IsPurchased {
			changed = append(changed, updated[i])
		}
	}

	if err := s.repo.SetPurchaseStates(ctx, identity.BusinessProfileID, changed); err != nil {
		s.logger.Error("Falha ao marcar todos os itens como comprados.", err)
		return domain.ShoppingList{}, apperror.Wrap("Falha interna ao marcar itens.", err)
	}

	s.logger.Info("Todos os itens pendentes marcados como comprados.", map[string]interface{}{"changed": len(changed)})
	return domain.ShoppingList{Items: updated, Summary: restock.SummarizeList(updated)}, nil
}

// GenerateFromInventory cria entradas automáticas para itens esgotados ou abaixo
// do nível de reposição que ainda não têm entrada pendente na lista.
func (s *Service) GenerateFromInventory(ctx context.Context, identity domain.Identity) ([]domain.ShoppingListItem, error) {
	s.logger.Debug("Iniciando geração automática da lista de compras.", map[string]interface{}{"business_profile_id": identity.BusinessProfileID})

	inventory, err := s.inventory.FindAll(ctx, identity.BusinessProfileID, domain.InventoryFilter{})
	if err != nil {
		s.logger.Error("Falha ao carregar estoque para geração.", err)
		return nil, apperror.Wrap("Falha interna ao carregar estoque.", err)
	}

	existing, err := s.repo.FindAll(ctx, identity.BusinessProfileID)
	if err != nil {
		s.logger.Error("Falha ao carregar lista atual para geração.", err)
		return nil, apperror.Wrap("Falha interna ao carregar lista de compras.", err)
	}

	generated, err := restock.Generate(inventory, existing, s.now())
	if err != nil {
		s.logger.Warn("Geração abortada por item de estoque inválido.", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	if len(generated) == 0 {
		s.logger.Info("Nenhum item precisa de reposição.", nil)
		return generated, nil
	}

	for i := range generated {
		generated[i].BusinessProfileID = identity.BusinessProfileID
		generated[i].CreatedBy = identity.UserID
	}

	created, err := s.repo.CreateBatch(ctx, generated)
	if err != nil {
		s.logger.Error("Falha ao persistir itens gerados.", err)
		return nil, apperror.Wrap("Falha interna ao gravar itens gerados.", err)
	}

	s.logger.Info("Lista de compras gerada a partir do estoque.", map[string]interface{}{"generated": len(created)})
	return created, nil
}

// ClearPurchased remove as entradas já compradas.
func (s *Service) ClearPurchased(ctx context.Context, identity domain.Identity) (int64, error) {
	removed, err := s.repo.DeletePurchased(ctx, identity.BusinessProfileID)
	if err != nil {
		s.logger.Error("Falha ao limpar itens comprados.", err)
		return 0, apperror.Wrap("Falha interna ao limpar itens comprados.", err)
	}
	return removed, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do item da lista deve ser um UUID válido.")
	}
	return nil
}

func validateOptionalID(id *string, label string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := uuid.Parse(*id); err != nil {
		return apperror.NewValidationError("O ID do " + label + " deve ser um UUID válido.")
	}
	return nil
}
