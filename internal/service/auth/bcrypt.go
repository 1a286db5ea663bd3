package auth

import "golang.org/x/crypto/bcrypt"

// bcryptMaxBytes mirrors bcrypt's 72-byte input limit; passwords longer than
// this are truncated before hashing, matching the donor implementation.
const bcryptMaxBytes = 72

func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

func (s *JWTCredentialService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *JWTCredentialService) VerifyPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncateForBcrypt(password)) == nil
}
