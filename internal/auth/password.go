package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt с фактором 12: заметно дороже дефолта, но логин не на горячем пути.
const passwordCost = 12

// HashPassword хэширует пароль для хранения.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// ComparePassword проверяет пароль против сохраненного хэша.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
