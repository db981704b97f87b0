package supplierrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kitchenstock/internal/domain"
	"kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
)

const supplierColumns = `id, business_profile_id, name, contact_name, email, phone, created_at, updated_at`

// SupplierRepository implementa as operações CRUD de fornecedores, sempre no escopo do estabelecimento.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSupplier(s scanner) (domain.Supplier, error) {
	var supplier domain.Supplier
	err := s.Scan(
		&supplier.ID, &supplier.BusinessProfileID, &supplier.Name, &supplier.ContactName,
		&supplier.Email, &supplier.Phone, &supplier.CreatedAt, &supplier.UpdatedAt,
	)
	return supplier, err
}

// CreateSupplier insere um novo fornecedor.
func (r *SupplierRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	r.logger.Debug("Iniciando CreateSupplier no repositório.", map[string]interface{}{"name": supplier.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	query := `
        INSERT INTO suppliers (` + supplierColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + supplierColumns

	created, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query,
		supplier.ID, supplier.BusinessProfileID, supplier.Name, supplier.ContactName,
		supplier.Email, supplier.Phone, supplier.CreatedAt, supplier.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao criar fornecedor", err)
	}

	r.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetSupplierByID busca um fornecedor pelo ID.
func (r *SupplierRepository) GetSupplierByID(ctx context.Context, businessProfileID, id string) (domain.Supplier, error) {
	r.logger.Debug("Iniciando GetSupplierByID no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + supplierColumns + `
        FROM suppliers
        WHERE id = $1 AND business_profile_id = $2`

	supplier, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query, id, businessProfileID))
	if err == sql.ErrNoRows {
		r.logger.Info("Fornecedor não encontrado.", map[string]interface{}{"id": id})
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao buscar fornecedor", err)
	}

	return supplier, nil
}

// GetAllSuppliers lista os fornecedores do estabelecimento em ordem alfabética.
func (r *SupplierRepository) GetAllSuppliers(ctx context.Context, businessProfileID string) ([]domain.Supplier, error) {
	r.logger.Debug("Iniciando GetAllSuppliers no repositório.", map[string]interface{}{"business_profile_id": businessProfileID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + supplierColumns + `
        FROM suppliers
        WHERE business_profile_id = $1
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, businessProfileID)
	if err != nil {
		r.logger.Error("Falha ao executar GetAllSuppliers query.", err)
		return nil, errors.NewDBError("Falha ao buscar fornecedores", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear fornecedor na iteração de GetAllSuppliers.", err)
			return nil, errors.NewDBError("Falha ao mapear fornecedores do DB", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de fornecedores.", err)
		return nil, errors.NewDBError("Erro após iteração de fornecedores", err)
	}

	r.logger.Info("GetAllSuppliers concluído com sucesso.", map[string]interface{}{"total_suppliers": len(suppliers)})
	return suppliers, nil
}

// UpdateSupplier atualiza os dados de contato de um fornecedor.
func (r *SupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	r.logger.Debug("Iniciando UpdateSupplier no repositório.", map[string]interface{}{"id": supplier.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE suppliers
        SET name = $1, contact_name = $2, email = $3, phone = $4, updated_at = $5
        WHERE id = $6 AND business_profile_id = $7
        RETURNING ` + supplierColumns

	updated, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query,
		supplier.Name, supplier.ContactName, supplier.Email, supplier.Phone, time.Now().UTC(),
		supplier.ID, supplier.BusinessProfileID,
	))
	if err == sql.ErrNoRows {
		r.logger.Info("Fornecedor não encontrado para atualização.", map[string]interface{}{"id": supplier.ID})
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para atualização.", supplier.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao atualizar fornecedor", err)
	}

	r.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteSupplier remove um fornecedor. Itens de estoque vinculados ficam sem fornecedor (ON DELETE SET NULL).
func (r *SupplierRepository) DeleteSupplier(ctx context.Context, businessProfileID, id string) error {
	r.logger.Debug("Iniciando DeleteSupplier no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM suppliers WHERE id = $1 AND business_profile_id = $2`,
		id, businessProfileID,
	)
	if err != nil {
		r.logger.Error("Falha ao deletar fornecedor do DB.", err)
		return errors.NewDBError("Falha ao deletar fornecedor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após DeleteSupplier.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
