// Package local persiste en el dispositivo (SQLite) el email de la última sesión
// online verificada, para permitir el login sin conexión.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/sippa-api/internal/application/auth"
)

var _ auth.CredentialStore = (*CredentialStore)(nil)

// credentialSlot clave fija: la tabla nunca tiene más de una fila.
const credentialSlot = 1

// localCredential fila única con el email verificado. Nunca guarda contraseña ni token.
type localCredential struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	Email     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (localCredential) TableName() string { return "local_credential" }

// CredentialStore valor opcional único con semántica de reemplazo.
type CredentialStore struct {
	db *gorm.DB
}

// Open abre (o crea) la base SQLite en path y migra su esquema.
func Open(path string) (*CredentialStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("local: abrir %s: %w", path, err)
	}
	return NewCredentialStore(db)
}

// NewCredentialStore construye el store sobre una conexión GORM existente.
func NewCredentialStore(db *gorm.DB) (*CredentialStore, error) {
	if err := db.AutoMigrate(&localCredential{}); err != nil {
		return nil, fmt.Errorf("local: migrar: %w", err)
	}
	return &CredentialStore{db: db}, nil
}

// SetCredential reemplaza el valor en una sola transacción: borra cualquier fila
// ajena a la clave fija y hace upsert sobre ella.
func (s *CredentialStore) SetCredential(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id <> ?", credentialSlot).Delete(&localCredential{}).Error; err != nil {
			return fmt.Errorf("local: limpiar: %w", err)
		}
		row := localCredential{ID: credentialSlot, Email: email, UpdatedAt: time.Now()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("local: guardar: %w", err)
		}
		return nil
	})
}

// HasCredential indica si hay un valor almacenado.
func (s *CredentialStore) HasCredential(ctx context.Context) (bool, error) {
	_, ok, err := s.get(ctx)
	return ok, err
}

// MatchesCredential comparación exacta y sensible a mayúsculas con el valor almacenado.
func (s *CredentialStore) MatchesCredential(ctx context.Context, email string) (bool, error) {
	stored, ok, err := s.get(ctx)
	if err != nil || !ok {
		return false, err
	}
	return stored == email, nil
}

// Clear elimina el valor almacenado.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&localCredential{}).Error
}

// Close libera la conexión subyacente.
func (s *CredentialStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *CredentialStore) get(ctx context.Context) (string, bool, error) {
	var row localCredential
	err := s.db.WithContext(ctx).First(&row, credentialSlot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("local: leer: %w", err)
	}
	return row.Email, true, nil
}
