package services

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// dummyHash is compared against when the account doesn't exist
var dummyHash = sync.OnceValue(func() string {
	hash, _ := hashPassword("not-a-real-password")
	return hash
})

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
