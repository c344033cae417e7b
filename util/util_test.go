package util

import "testing"

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Formatted National", "(123) 456-7890", "+11234567890"},
		{"Bare Ten Digits", "1234567890", "+11234567890"},
		{"Ten Digits No Leading One", "5551234567", "+15551234567"},
		{"Eleven Digits With Country Code", "15551234567", "+15551234567"},
		{"Already Normalized", "+15551234567", "+15551234567"},
		{"Dashes And Spaces", "1-555-123-4567", "+15551234567"},
		{"Dots", "555.123.4567", "+15551234567"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizePhone(tc.input)
			if result != tc.expected {
				t.Errorf("NormalizePhone(%q) = %q; want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"(555) 123-4567", "15551234567", "+15551234567", "5551234567"}

	for _, input := range inputs {
		once := NormalizePhone(input)
		twice := NormalizePhone(once)
		if once != twice {
			t.Errorf("NormalizePhone is not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestChunkStrings(t *testing.T) {
	items := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		items = append(items, "x")
	}

	chunks := ChunkStrings(items, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 || len(chunks[2]) != 50 {
		t.Errorf("unexpected chunk sizes: %d, %d, %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestChunkStringsExactMultiple(t *testing.T) {
	chunks := ChunkStrings(make([]string, 200), 100)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestChunkStringsEmpty(t *testing.T) {
	if chunks := ChunkStrings(nil, 100); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestIsEmail(t *testing.T) {
	if !IsEmail("clerk@cityline.gov") {
		t.Error("expected valid email to pass")
	}
	if IsEmail("not-an-email") {
		t.Error("expected invalid email to fail")
	}
}
