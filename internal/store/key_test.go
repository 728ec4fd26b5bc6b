package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple", "report.xlsx", "docs:report"},
		{"uppercase lowered", "Quarterly Report.docx", "docs:quarterly_report"},
		{"special characters", "a+b (final).pdf", "docs:a_b__final_"},
		{"multiple dots keep inner", "archive.tar.gz", "docs:archive_tar"},
		{"no extension", "README", "docs:readme"},
		{"leading dot not an extension", ".env", "docs:_env"},
		{"unicode replaced", "résumé.docx", "docs:r_sum_"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveKey(tc.filename))
		})
	}
}

func TestDeriveKeyStable(t *testing.T) {
	assert.Equal(t, DeriveKey("Some File.xlsx"), DeriveKey("Some File.xlsx"))
}

func TestDeriveKeyCollision(t *testing.T) {
	// Distinct filenames that sanitize identically map to the same key.
	assert.Equal(t, DeriveKey("a b.pdf"), DeriveKey("a_b.docx"))
}
