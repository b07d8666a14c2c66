package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateID generates a unique ID with the given prefix
func GenerateID(prefix string) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 10

	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[num.Int64()]
	}

	return fmt.Sprintf("%s-%s", prefix, string(result))
}

// ValidateVehicleID validates the vehicle ID format
func ValidateVehicleID(id string) bool {
	return strings.HasPrefix(id, "veh-")
}

// ValidatePersonID validates the person ID format
func ValidatePersonID(id string) bool {
	return strings.HasPrefix(id, "per-")
}
