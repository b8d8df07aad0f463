package auth

import "errors"

// Ошибки аутентификации. Все они завершают текущий запрос с ответом 4xx;
// любая другая ошибка Authenticator считается инфраструктурной.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownSubject     = errors.New("unknown token subject")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrMissingToken       = errors.New("missing bearer token")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrDuplicateIdentity, "duplicate_identity"},
	{ErrInvalidToken, "invalid_token"},
	{ErrUnknownSubject, "unknown_subject"},
	{ErrInactiveAccount, "inactive_account"},
	{ErrMissingToken, "missing_token"},
}

// Kind возвращает метку вида ошибки аутентификации или пустую строку,
// если err не относится к таксономии.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// IsAuthError сообщает, является ли err ошибкой аутентификации.
func IsAuthError(err error) bool {
	return Kind(err) != ""
}
