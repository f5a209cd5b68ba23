package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional buyer attached to a sale.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome     string    `gorm:"index;not null"`
	Email    *string   `gorm:"uniqueIndex"`
	Telefone *string
	// Documento stores the CPF, digits only, validated on create/update.
	Documento *string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
