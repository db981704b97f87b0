package shoppinglistrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"kitchenstock/internal/domain"
	"kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/database"
	"kitchenstock/internal/pkg/logger"
)

const table = "shopping_list_items"

var columns = []string{
	"id", "business_profile_id", "name", "quantity", "unit", "category", "notes",
	"is_purchased", "is_auto_generated", "is_urgent", "estimated_cost",
	"inventory_item_id", "supplier_id", "added_at", "purchased_at", "created_by",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// ShoppingListRepository acessa a tabela shopping_list_items (PostgreSQL).
type ShoppingListRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewShoppingListRepository cria e retorna uma nova instância do Repositório da Lista de Compras.
func NewShoppingListRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ShoppingListRepository {
	return &ShoppingListRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	var inventoryItemID, supplierID sql.NullString
	var purchasedAt sql.NullTime

	err := s.Scan(
		&item.ID, &item.BusinessProfileID, &item.Name, &item.Quantity, &item.Unit, &item.Category, &item.Notes,
		&item.IsPurchased, &item.IsAutoGenerated, &item.IsUrgent, &item.EstimatedCost,
		&inventoryItemID, &supplierID, &item.AddedAt, &purchasedAt, &item.CreatedBy,
	)
	if err != nil {
		return domain.ShoppingListItem{}, err
	}

	item.InventoryItemID = database.StringPtr(inventoryItemID)
	item.SupplierID = database.StringPtr(supplierID)
	item.PurchasedAt = database.TimePtr(purchasedAt)
	return item, nil
}

func values(item domain.ShoppingListItem) []interface{} {
	return []interface{}{
		item.ID, item.BusinessProfileID, item.Name, item.Quantity, item.Unit, item.Category, item.Notes,
		item.IsPurchased, item.IsAutoGenerated, item.IsUrgent, item.EstimatedCost,
		database.NullString(item.InventoryItemID), database.NullString(item.SupplierID),
		item.AddedAt, database.NullTime(item.PurchasedAt), item.CreatedBy,
	}
}

// translate converte a violação do índice de pendência única em conflito de negócio.
func (r *ShoppingListRepository) translate(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		r.logger.Warn("Entrada pendente duplicada para o mesmo item de estoque.", map[string]interface{}{"error": err.Error()})
		return errors.NewConflictError("Já existe uma entrada pendente na lista para este item de estoque.")
	}
	r.logger.Error(msg, err)
	return errors.NewDBError(msg, err)
}

func notFound(id string) error {
	return errors.NewNotFoundError(fmt.Sprintf("Item da lista de compras com ID %s não existe.", id))
}

// FindAll retorna a lista completa do estabelecimento: pendentes primeiro, urgentes no topo.
func (r *ShoppingListRepository) FindAll(ctx context.Context, businessProfileID string) ([]domain.ShoppingListItem, error) {
	r.logger.Debug("Iniciando FindAll na lista de compras.", map[string]interface{}{"business_profile_id": businessProfileID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"business_profile_id": businessProfileID}).
		OrderBy("is_purchased ASC", "is_urgent DESC", "added_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, errors.NewInternalError("Falha ao montar consulta da lista de compras.", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar consulta da lista de compras.", err)
		return nil, errors.NewDBError("Falha ao buscar lista de compras", err)
	}
	defer rows.Close()

	items := []domain.ShoppingListItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear item da lista de compras.", err)
			return nil, errors.NewDBError("Falha ao mapear lista de compras", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração da lista de compras", err)
	}

	return items, nil
}

// FindByID busca uma entrada da lista pelo ID.
func (r *ShoppingListRepository) FindByID(ctx context.Context, businessProfileID, id string) (domain.ShoppingListItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID}).
		ToSql()
	if err != nil {
		return domain.ShoppingListItem{}, errors.NewInternalError("Falha ao montar consulta da lista de compras.", err)
	}

	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err == sql.ErrNoRows {
		return domain.ShoppingListItem{}, notFound(id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item da lista de compras.", err)
		return domain.ShoppingListItem{}, errors.NewDBError("Falha ao buscar item da lista de compras", err)
	}
	return item, nil
}

// Create insere uma entrada manual.
func (r *ShoppingListRepository) Create(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	r.logger.Debug("Iniciando Create na lista de compras.", map[string]interface{}{"name": item.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Insert(table).
		Columns(columns...).
		Values(values(item)...).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.ShoppingListItem{}, errors.NewInternalError("Falha ao montar insert da lista de compras.", err)
	}

	created, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err != nil {
		return domain.ShoppingListItem{}, r.translate(err, "Falha ao criar item da lista de compras")
	}

	r.logger.Info("Item adicionado à lista de compras.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// CreateBatch insere as entradas geradas em um único INSERT, dentro de uma transação.
// Uma violação do índice de pendência desfaz o lote inteiro.
func (r *ShoppingListRepository) CreateBatch(ctx context.Context, items []domain.ShoppingListItem) ([]domain.ShoppingListItem, error) {
	if len(items) == 0 {
		return []domain.ShoppingListItem{}, nil
	}
	r.logger.Debug("Iniciando CreateBatch na lista de compras.", map[string]interface{}{"count": len(items)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	builder := database.Builder.Insert(table).Columns(columns...)
	for _, item := range items {
		builder = builder.Values(values(item)...)
	}
	query, args, err := builder.Suffix(returning).ToSql()
	if err != nil {
		return nil, errors.NewInternalError("Falha ao montar insert em lote da lista de compras.", err)
	}

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do lote.", err)
		return nil, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, r.translate(err, "Falha ao inserir lote na lista de compras")
	}

	created := make([]domain.ShoppingListItem, 0, len(items))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, errors.NewDBError("Falha ao mapear lote da lista de compras", err)
		}
		created = append(created, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, r.translate(err, "Falha ao inserir lote na lista de compras")
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, r.translate(err, "Falha ao commitar lote da lista de compras")
	}

	r.logger.Info("Lote gerado inserido na lista de compras.", map[string]interface{}{"count": len(created)})
	return created, nil
}

// Update grava os campos editáveis de uma entrada. O estado de compra é alterado por SetPurchaseStates.
func (r *ShoppingListRepository) Update(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	r.logger.Debug("Iniciando Update na lista de compras.", map[string]interface{}{"id": item.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Update(table).
		Set("name", item.Name).
		Set("quantity", item.Quantity).
		Set("unit", item.Unit).
		Set("category", item.Category).
		Set("notes", item.Notes).
		Set("is_urgent", item.IsUrgent).
		Set("estimated_cost", item.EstimatedCost).
		Set("supplier_id", database.NullString(item.SupplierID)).
		Where(sq.Eq{"id": item.ID, "business_profile_id": item.BusinessProfileID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.ShoppingListItem{}, errors.NewInternalError("Falha ao montar update da lista de compras.", err)
	}

	updated, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err == sql.ErrNoRows {
		return domain.ShoppingListItem{}, notFound(item.ID)
	}
	if err != nil {
		return domain.ShoppingListItem{}, r.translate(err, "Falha ao atualizar item da lista de compras")
	}

	r.logger.Info("Item da lista de compras atualizado.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// SetPurchaseStates persiste is_purchased/purchased_at das entradas informadas em uma transação.
// Entradas removidas por outra operação no meio do caminho são ignoradas.
func (r *ShoppingListRepository) SetPurchaseStates(ctx context.Context, businessProfileID string, items []domain.ShoppingListItem) error {
	if len(items) == 0 {
		return nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de compra.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		query, args, err := database.Builder.
			Update(table).
			Set("is_purchased", item.IsPurchased).
			Set("purchased_at", database.NullTime(item.PurchasedAt)).
			Where(sq.Eq{"id": item.ID, "business_profile_id": businessProfileID}).
			ToSql()
		if err != nil {
			return errors.NewInternalError("Falha ao montar update de compra.", err)
		}
		if _, err := tx.ExecContext(ctxTimeout, query, args...); err != nil {
			return r.translate(err, "Falha ao atualizar estado de compra")
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar estados de compra.", err)
		return errors.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Estados de compra atualizados.", map[string]interface{}{"count": len(items)})
	return nil
}

// Delete remove uma entrada da lista.
func (r *ShoppingListRepository) Delete(ctx context.Context, businessProfileID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Delete(table).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID}).
		ToSql()
	if err != nil {
		return errors.NewInternalError("Falha ao montar exclusão da lista de compras.", err)
	}

	result, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao deletar item da lista de compras.", err)
		return errors.NewDBError("Falha ao deletar item da lista de compras", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return notFound(id)
	}

	r.logger.Info("Item removido da lista de compras.", map[string]interface{}{"id": id})
	return nil
}

// DeletePurchased remove todas as entradas já compradas e retorna quantas foram removidas.
func (r *ShoppingListRepository) DeletePurchased(ctx context.Context, businessProfileID string) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Delete(table).
		Where(sq.Eq{"business_profile_id": businessProfileID, "is_purchased": true}).
		ToSql()
	if err != nil {
		return 0, errors.NewInternalError("Falha ao montar limpeza da lista de compras.", err)
	}

	result, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao limpar itens comprados.", err)
		return 0, errors.NewDBError("Falha ao limpar itens comprados", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("Itens comprados removidos da lista.", map[string]interface{}{"removed": removed})
	return removed, nil
}
