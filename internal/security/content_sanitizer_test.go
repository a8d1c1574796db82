package security

import "testing"

// TestContentSanitizer_Sanitize はHTMLタグ除去と空白除去を検証する。
func TestContentSanitizer_Sanitize(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "買い物リスト", "買い物リスト"},
		{"scriptタグを除去", `<script>alert("x")</script>買い物`, "買い物"},
		{"装飾タグを除去", "<b>重要</b>なタスク", "重要なタスク"},
		{"前後の空白を除去", "  タスク  ", "タスク"},
		{"空文字列は空のまま", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestContentSanitizer_Idempotent は同一入力に対して常に同一出力を返すことを検証する。
func TestContentSanitizer_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	once := s.Sanitize("<i>タスク</i>の説明")
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}
