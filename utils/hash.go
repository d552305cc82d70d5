package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword digests a plaintext password with bcrypt. Only the digest is
// ever stored or compared.
func HashPassword(p string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(p), 12)
	return string(bytes), err
}

func CheckPassword(hash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	return err == nil
}
