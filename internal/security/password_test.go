package security

import "testing"

// TestBcryptHasher_HashAndMatches はハッシュ化と照合の往復を検証する。
// テスト高速化のため最小コストを使用する。
func TestBcryptHasher_HashAndMatches(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret1" {
		t.Error("hash must not equal the raw password")
	}

	if !hasher.Matches("secret1", hash) {
		t.Error("Matches should succeed for the original password")
	}
	if hasher.Matches("wrong-password", hash) {
		t.Error("Matches should fail for a different password")
	}
}

// TestBcryptHasher_InvalidHash は不正なハッシュとの照合が失敗することを検証する。
func TestBcryptHasher_InvalidHash(t *testing.T) {
	hasher := NewBcryptHasher(4)

	if hasher.Matches("secret1", "not-a-bcrypt-hash") {
		t.Error("Matches should fail for a malformed hash")
	}
}

// TestNewBcryptHasher_CostOutOfRange は範囲外コストがデフォルトに丸められることを検証する。
func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	hasher := NewBcryptHasher(999)

	// デフォルトコストでもハッシュ化が成功すること
	if _, err := hasher.Hash("secret1"); err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
}
