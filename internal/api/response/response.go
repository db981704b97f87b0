// Package response padroniza as respostas JSON dos handlers da API.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/pkg/middleware"
)

// JSON escreve data com o status informado. data nil gera apenas o status.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz o erro para o status HTTP e o corpo {"code","category","message"}.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	JSON(w, log, status, domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// Decode lê o corpo JSON da requisição.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// Identity recupera o usuário autenticado anexado pelo middleware de autenticação.
func Identity(r *http.Request) (domain.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.BusinessProfileID == "" {
		return domain.Identity{}, apperror.NewUnauthorizedError("Autorização necessária.")
	}
	return identity, nil
}
