package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows not recognized")
	}
	if !isNotFound(fmt.Errorf("get row: %w", sql.ErrNoRows)) {
		t.Fatal("wrapped sql.ErrNoRows not recognized")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatal("arbitrary error treated as not found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatal("unique violation code not recognized")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation treated as unique violation")
	}
	if isUniqueViolation(fmt.Errorf("boom")) {
		t.Fatal("arbitrary error treated as unique violation")
	}
}
