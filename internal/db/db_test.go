package db

import (
	"testing"

	"gorm.io/gorm/logger"

	"pokerleague/internal/config"
)

func TestAutoMigrate_NilDB(t *testing.T) {
	if err := AutoMigrate(nil); err != nil {
		t.Fatalf("err=%v want nil", err)
	}
	if err := AutoMigrate(&DB{}); err != nil {
		t.Fatalf("err=%v want nil", err)
	}
}

func TestCloseAndPing_NilDB(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("close err=%v", err)
	}
	if err := Ping(&DB{}); err != nil {
		t.Fatalf("ping err=%v", err)
	}
}

func TestSetTimezone_Empty(t *testing.T) {
	if err := SetTimezone(&DB{}, ""); err != nil {
		t.Fatalf("err=%v want nil", err)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(config.DBConfig{}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestLogLevel(t *testing.T) {
	if got := logLevel("INFO"); got != logger.Info {
		t.Fatalf("level=%v want=info", got)
	}
	if got := logLevel("verbose"); got != logger.Silent {
		t.Fatalf("level=%v want=silent", got)
	}
}
