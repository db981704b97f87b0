package inventoryrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"kitchenstock/internal/domain"
	"kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/cache"
	"kitchenstock/internal/pkg/database"
	"kitchenstock/internal/pkg/logger"
)

const table = "inventory_items"

var columns = []string{
	"id", "business_profile_id", "name", "category", "quantity", "unit", "cost_per_unit",
	"reorder_point", "minimum_stock_level", "max_stock", "supplier_id", "notes",
	"version", "created_by", "created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Define a chave de cache para itens de estoque (estabelecimento, item).
const itemCacheKey = "inventory:%s:%s"

// InventoryRepository acessa a tabela inventory_items (PostgreSQL), com cache-aside (Redis) na leitura por ID.
type InventoryRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewInventoryRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	var reorderPoint, minimumStock, maxStock sql.NullFloat64
	var supplierID sql.NullString

	err := s.Scan(
		&item.ID, &item.BusinessProfileID, &item.Name, &item.Category, &item.Quantity, &item.Unit,
		&item.CostPerUnit, &reorderPoint, &minimumStock, &maxStock, &supplierID, &item.Notes,
		&item.Version, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	item.ReorderPoint = database.FloatPtr(reorderPoint)
	item.MinimumStockLevel = database.FloatPtr(minimumStock)
	item.MaxStock = database.FloatPtr(maxStock)
	item.SupplierID = database.StringPtr(supplierID)
	return item, nil
}

func cacheKey(businessProfileID, id string) string {
	return fmt.Sprintf(itemCacheKey, businessProfileID, id)
}

// invalidate remove o item do cache. Falhas no Redis são apenas registradas.
func (r *InventoryRepository) invalidate(ctx context.Context, businessProfileID, id string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Delete(ctx, cacheKey(businessProfileID, id)); err != nil {
		r.logger.Warn("Falha ao invalidar item de estoque no cache.", map[string]interface{}{"id": id, "error": err.Error()})
	}
}

// Create insere um novo item de estoque.
func (r *InventoryRepository) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	r.logger.Debug("Iniciando Create no repositório de estoque.", map[string]interface{}{"name": item.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Insert(table).
		Columns(columns...).
		Values(
			item.ID, item.BusinessProfileID, item.Name, item.Category, item.Quantity, item.Unit, item.CostPerUnit,
			database.NullFloat(item.ReorderPoint), database.NullFloat(item.MinimumStockLevel), database.NullFloat(item.MaxStock),
			database.NullString(item.SupplierID), item.Notes, item.Version, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, errors.NewInternalError("Falha ao montar insert de estoque.", err)
	}

	created, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.InventoryItem{}, errors.NewValidationError("O fornecedor informado não existe.")
		}
		r.logger.Error("Falha ao inserir item de estoque no DB.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao criar item de estoque", err)
	}

	r.logger.Info("Item de estoque criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// FindByID busca um item pelo ID usando a estratégia Cache-Aside.
func (r *InventoryRepository) FindByID(ctx context.Context, businessProfileID, id string) (domain.InventoryItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cacheKey(businessProfileID, id)

	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var item domain.InventoryItem
			if json.Unmarshal([]byte(cached), &item) == nil {
				return item, nil
			}
			r.logger.Warn("Item de estoque corrompido no cache, buscando no DB.", map[string]interface{}{"key": key})
		} else if err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	query, args, err := database.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID}).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, errors.NewInternalError("Falha ao montar consulta de estoque.", err)
	}

	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err == sql.ErrNoRows {
		return domain.InventoryItem{}, errors.NewNotFoundError(fmt.Sprintf("Item de estoque com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item de estoque no DB.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao buscar item de estoque", err)
	}

	if r.Cache != nil {
		if payload, marshalErr := json.Marshal(item); marshalErr == nil {
			if setErr := r.Cache.Set(ctxTimeout, key, payload, r.CacheTTL); setErr != nil {
				r.logger.Warn("Falha ao gravar item de estoque no cache.", map[string]interface{}{"key": key, "error": setErr.Error()})
			}
		}
	}

	return item, nil
}

// FindAll lista os itens do estabelecimento aplicando os filtros persistidos.
// Limit <= 0 retorna todos os registros.
func (r *InventoryRepository) FindAll(ctx context.Context, businessProfileID string, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	r.logger.Debug("Iniciando FindAll no repositório de estoque.", map[string]interface{}{"business_profile_id": businessProfileID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	builder := database.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"business_profile_id": businessProfileID}).
		OrderBy("name ASC", "id ASC")

	if filter.Name != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.SupplierID != "" {
		builder = builder.Where(sq.Eq{"supplier_id": filter.SupplierID})
	}
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64((page - 1) * filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.NewInternalError("Falha ao montar listagem de estoque.", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar listagem de estoque.", err)
		return nil, errors.NewDBError("Falha ao listar itens de estoque", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear item de estoque.", err)
			return nil, errors.NewDBError("Falha ao mapear itens de estoque", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de itens de estoque", err)
	}

	return items, nil
}

// Update grava as alterações com controle de concorrência otimista:
// a versão enviada deve ser a versão atual do registro.
func (r *InventoryRepository) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	r.logger.Debug("Iniciando Update no repositório de estoque.", map[string]interface{}{"id": item.ID, "version": item.Version})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Update(table).
		Set("name", item.Name).
		Set("category", item.Category).
		Set("quantity", item.Quantity).
		Set("unit", item.Unit).
		Set("cost_per_unit", item.CostPerUnit).
		Set("reorder_point", database.NullFloat(item.ReorderPoint)).
		Set("minimum_stock_level", database.NullFloat(item.MinimumStockLevel)).
		Set("max_stock", database.NullFloat(item.MaxStock)).
		Set("supplier_id", database.NullString(item.SupplierID)).
		Set("notes", item.Notes).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": item.ID, "business_profile_id": item.BusinessProfileID, "version": item.Version}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, errors.NewInternalError("Falha ao montar update de estoque.", err)
	}

	updated, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err == sql.ErrNoRows {
		return domain.InventoryItem{}, r.missingOrStale(ctxTimeout, item.BusinessProfileID, item.ID, item.Version)
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.InventoryItem{}, errors.NewValidationError("O fornecedor informado não existe.")
		}
		r.logger.Error("Falha ao atualizar item de estoque.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao atualizar item de estoque", err)
	}

	r.invalidate(ctx, item.BusinessProfileID, item.ID)
	r.logger.Info("Item de estoque atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "new_version": updated.Version})
	return updated, nil
}

// missingOrStale distingue item inexistente (404) de versão desatualizada (409).
func (r *InventoryRepository) missingOrStale(ctx context.Context, businessProfileID, id string, version int) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1 AND business_profile_id = $2)`,
		id, businessProfileID,
	).Scan(&exists)
	if err != nil {
		return errors.NewDBError("Falha ao verificar item de estoque", err)
	}
	if !exists {
		return errors.NewNotFoundError(fmt.Sprintf("Item de estoque com ID %s não existe.", id))
	}
	r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
		"id":               id,
		"expected_version": version,
	})
	return errors.NewConflictError("O item foi modificado por outra operação. Recarregue e tente novamente.")
}

// AdjustQuantity aplica um delta à quantidade dentro de uma transação (SELECT ... FOR UPDATE + OCC).
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, businessProfileID, id string, delta float64) (domain.InventoryItem, error) {
	r.logger.Debug("Iniciando ajuste de quantidade no repositório.", map[string]interface{}{"id": id, "delta": delta})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para ajuste de estoque.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	selectQuery, args, err := database.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, errors.NewInternalError("Falha ao montar consulta de estoque.", err)
	}

	current, err := scanItem(tx.QueryRowContext(ctxTimeout, selectQuery, args...))
	if err == sql.ErrNoRows {
		return domain.InventoryItem{}, errors.NewNotFoundError(fmt.Sprintf("Item de estoque com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao selecionar item para ajuste.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao buscar item para ajuste", err)
	}

	newQuantity := current.Quantity + delta
	if newQuantity < 0 {
		r.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", map[string]interface{}{
			"id":               id,
			"current_quantity": current.Quantity,
			"delta":            delta,
		})
		return domain.InventoryItem{}, errors.NewValidationError("Ajuste resultaria em quantidade de estoque negativa.")
	}

	updateQuery, args, err := database.Builder.
		Update(table).
		Set("quantity", newQuantity).
		Set("version", current.Version+1).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID, "version": current.Version}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, errors.NewInternalError("Falha ao montar ajuste de estoque.", err)
	}

	updated, err := scanItem(tx.QueryRowContext(ctxTimeout, updateQuery, args...))
	if err == sql.ErrNoRows {
		return domain.InventoryItem{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar quantidade.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao atualizar estoque", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de ajuste de estoque.", err)
		return domain.InventoryItem{}, errors.NewDBError("Falha ao commitar transação", err)
	}

	r.invalidate(ctx, businessProfileID, id)
	r.logger.Info("Quantidade ajustada com sucesso.", map[string]interface{}{
		"id":           id,
		"new_quantity": updated.Quantity,
		"new_version":  updated.Version,
	})
	return updated, nil
}

// Delete remove um item de estoque. Entradas da lista de compras que o referenciam são mantidas.
func (r *InventoryRepository) Delete(ctx context.Context, businessProfileID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := database.Builder.
		Delete(table).
		Where(sq.Eq{"id": id, "business_profile_id": businessProfileID}).
		ToSql()
	if err != nil {
		return errors.NewInternalError("Falha ao montar exclusão de estoque.", err)
	}

	result, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao deletar item de estoque.", err)
		return errors.NewDBError("Falha ao deletar item de estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Item de estoque com ID %s não existe.", id))
	}

	r.invalidate(ctx, businessProfileID, id)
	r.logger.Info("Item de estoque deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
