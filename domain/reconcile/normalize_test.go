package reconcile

import (
	"testing"

	"merchhold/domain/table"
)

// TestNormalizeDate tests serial, ISO, and month-name inputs
func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    table.Value
		expected string
	}{
		{"excel serial number", table.Number(45000), "03/15/2023"},
		{"excel serial as string", table.Text("45000"), "03/15/2023"},
		{"iso date", table.Text("2024-03-05"), "03/05/2024"},
		{"month name with slashes", table.Text("Mar/5/2024"), "03/05/2024"},
		{"already canonical", table.Text("03/05/2024"), "03/05/2024"},
		{"single digit us date", table.Text("3/5/2024"), "03/05/2024"},
		{"unparseable left verbatim", table.Text("sometime soon"), "sometime soon"},
		{"plain year not a serial", table.Text("2024"), "2024"},
		{"null", table.Null, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NormalizeDate(test.input); got != test.expected {
				t.Errorf("NormalizeDate = %q, want %q", got, test.expected)
			}
		})
	}
}

// TestNormalizeCurrency tests grouped two-decimal rendering
func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    table.Value
		expected string
	}{
		{"plain decimal", table.Text("1200.5"), "1,200.50"},
		{"already grouped", table.Text("1,200.50"), "1,200.50"},
		{"numeric value", table.Number(1200.5), "1,200.50"},
		{"dollar prefix", table.Text("$99"), "99.00"},
		{"millions", table.Number(1234567.891), "1,234,567.89"},
		{"negative", table.Number(-4500), "-4,500.00"},
		{"small", table.Number(0.5), "0.50"},
		{"non-numeric verbatim", table.Text("pending review"), "pending review"},
		{"null", table.Null, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NormalizeCurrency(test.input); got != test.expected {
				t.Errorf("NormalizeCurrency = %q, want %q", got, test.expected)
			}
		})
	}
}
