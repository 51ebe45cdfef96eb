package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hashed, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hashed, "s3cret"); err != nil {
		t.Errorf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); err == nil {
		t.Error("ComparePassword accepted wrong password")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	t.Parallel()

	hashed, err := HashPassword("s3cret", 0)
	if err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default %d", cost, bcrypt.DefaultCost)
	}
}
