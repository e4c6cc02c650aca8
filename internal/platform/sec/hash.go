// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Password Hashes

// PasswordCost is the bcrypt work factor for newly created hashes.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored in the directory's password field.
// Only fixtures and seeding tools create hashes; sign-in compares them.
func HashPassword(plainTextPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether plainTextPassword matches existingHash.
// A malformed stored hash counts as a mismatch, so that member cannot sign in.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword)) == nil
}
