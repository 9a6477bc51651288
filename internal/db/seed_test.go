package db

import (
	"testing"

	"github.com/agropure/agropure-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSeedIdempotent(t *testing.T) {
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := AutoMigrate(d); err != nil {
		t.Fatal(err)
	}
	seed(d)
	seed(d)

	var adminCount int64
	d.Model(&models.User{}).Where("email = ?", "admin@agropure.local").Count(&adminCount)
	if adminCount != 1 {
		t.Fatalf("admin account duplicated or missing: %d", adminCount)
	}
	var supplierCount, materialCount int64
	d.Model(&models.Supplier{}).Count(&supplierCount)
	d.Model(&models.Material{}).Count(&materialCount)
	if supplierCount != 2 {
		t.Fatalf("expected 2 suppliers got %d", supplierCount)
	}
	if materialCount != 3 {
		t.Fatalf("expected 3 materials got %d", materialCount)
	}
}

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"postgres://u:p@h:5432/db", "postgres://u:p@h:5432/db"},
		{"  host=db user=app dbname=agropure  ", "host=db user=app dbname=agropure sslmode=disable"},
		{"host=db sslmode=require", "host=db sslmode=require"},
		{`"postgres://u:p@h/db"`, "postgres://u:p@h/db"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Fatalf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
