package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(userID, businessProfileID, role string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims são as informações emitidas pelo provedor de identidade.
// O ID do usuário vem em "sub" (RegisteredClaims.Subject).
type CustomClaims struct {
	BusinessProfileID string `json:"business_profile_id"`
	Role              string `json:"role"`
	jwt.RegisteredClaims
}

// UserID retorna o identificador do usuário autenticado.
func (c *CustomClaims) UserID() string {
	return c.Subject
}

// Service implementa a interface TokenService com HS256.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	issuer    string
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		issuer:    "KitchenStock-API",
	}
}

// GenerateToken cria um novo JWT assinado. Em produção os tokens são emitidos pelo
// provedor de identidade com o mesmo segredo; aqui é usado em testes e ferramentas locais.
func (s *Service) GenerateToken(userID, businessProfileID, role string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		BusinessProfileID: businessProfileID,
		Role:              role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna as claims se for válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}

	if claims.Subject == "" || claims.BusinessProfileID == "" {
		return nil, errors.New("token sem usuário ou estabelecimento")
	}

	return claims, nil
}
