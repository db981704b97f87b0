package supplierservice

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
)

// SupplierRepository define o contrato que o Serviço de Fornecedores espera da camada de Persistência.
type SupplierRepository interface {
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	GetSupplierByID(ctx context.Context, businessProfileID, id string) (domain.Supplier, error)
	GetAllSuppliers(ctx context.Context, businessProfileID string) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, businessProfileID, id string) error
}

// Service implementa as regras de negócio de fornecedores.
type Service struct {
	repo   SupplierRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateSupplier cria um novo fornecedor após validações de negócio.
func (s *Service) CreateSupplier(ctx context.Context, identity domain.Identity, supplier domain.Supplier) (domain.Supplier, error) {
	s.logger.Debug("Iniciando criação de fornecedor no serviço.", map[string]interface{}{"name": supplier.Name})

	supplier = normalize(supplier)
	if err := validateSupplier(supplier); err != nil {
		s.logger.Warn("Falha na validação do fornecedor.", map[string]interface{}{"name": supplier.Name, "error": err.Error()})
		return domain.Supplier{}, err
	}
	supplier.ID = ""
	supplier.BusinessProfileID = identity.BusinessProfileID

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao criar fornecedor no repositório.", err)
		return domain.Supplier{}, apperror.NewInternalError("Falha interna ao criar fornecedor.", err)
	}

	s.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetSupplierByID busca um fornecedor pelo ID após validações de formato.
func (s *Service) GetSupplierByID(ctx context.Context, identity domain.Identity, id string) (domain.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("ID de fornecedor inválido fornecido.", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	supplier, err := s.repo.GetSupplierByID(ctx, identity.BusinessProfileID, id)
	if err != nil {
		s.logger.Error("Falha ao buscar fornecedor no repositório.", err)
		return domain.Supplier{}, err // Erros do repositório já são NotFoundError ou DBError
	}
	return supplier, nil
}

// GetAllSuppliers lista os fornecedores do estabelecimento.
func (s *Service) GetAllSuppliers(ctx context.Context, identity domain.Identity) ([]domain.Supplier, error) {
	suppliers, err := s.repo.GetAllSuppliers(ctx, identity.BusinessProfileID)
	if err != nil {
		s.logger.Error("Falha ao buscar fornecedores no repositório.", err)
		return nil, apperror.NewInternalError("Falha interna ao buscar fornecedores.", err)
	}

	s.logger.Info("Fornecedores encontrados com sucesso.", map[string]interface{}{"count": len(suppliers)})
	return suppliers, nil
}

// UpdateSupplier atualiza um fornecedor existente.
func (s *Service) UpdateSupplier(ctx context.Context, identity domain.Identity, supplier domain.Supplier) (domain.Supplier, error) {
	if _, err := uuid.Parse(supplier.ID); err != nil {
		s.logger.Warn("ID de fornecedor inválido fornecido para atualização.", map[string]interface{}{"id": supplier.ID, "error": err.Error()})
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	supplier = normalize(supplier)
	if err := validateSupplier(supplier); err != nil {
		s.logger.Warn("Falha na validação do fornecedor para atualização.", map[string]interface{}{"id": supplier.ID, "error": err.Error()})
		return domain.Supplier{}, err
	}
	supplier.BusinessProfileID = identity.BusinessProfileID

	updated, err := s.repo.UpdateSupplier(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao atualizar fornecedor no repositório.", err)
		return domain.Supplier{}, err // Erros do repositório já são NotFoundError ou DBError
	}

	s.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteSupplier remove um fornecedor.
func (s *Service) DeleteSupplier(ctx context.Context, identity domain.Identity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("ID de fornecedor inválido fornecido para exclusão.", map[string]interface{}{"id": id, "error": err.Error()})
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	if err := s.repo.DeleteSupplier(ctx, identity.BusinessProfileID, id); err != nil {
		s.logger.Error("Falha ao deletar fornecedor no repositório.", err)
		return err // Erros do repositório já são NotFoundError ou DBError
	}

	s.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func normalize(supplier domain.Supplier) domain.Supplier {
	supplier.Name = strings.TrimSpace(supplier.Name)
	supplier.ContactName = strings.TrimSpace(supplier.ContactName)
	supplier.Email = strings.TrimSpace(supplier.Email)
	supplier.Phone = strings.TrimSpace(supplier.Phone)
	return supplier
}

// validateSupplier valida nome (3 a 100 caracteres) e e-mail, quando informado.
func validateSupplier(supplier domain.Supplier) error {
	if supplier.Name == "" {
		return apperror.NewValidationError("O nome do fornecedor não pode ser vazio.")
	}
	if n := utf8.RuneCountInString(supplier.Name); n < 3 || n > 100 {
		return apperror.NewValidationError("O nome do fornecedor deve ter entre 3 e 100 caracteres.")
	}
	if supplier.Email != "" {
		if _, err := mail.ParseAddress(supplier.Email); err != nil {
			return apperror.NewValidationError("O e-mail do fornecedor é inválido.")
		}
	}
	return nil
}
