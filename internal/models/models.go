package models

import (
	"time"
)

const (
	RolAdmin   = "admin"
	RolCliente = "cliente"
)

// ValidRol reports whether rol belongs to the closed role set.
func ValidRol(rol string) bool {
	return rol == RolAdmin || rol == RolCliente
}

type Usuario struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre       string `gorm:"not null"                 json:"nombre"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Rol          string `gorm:"not null;default:cliente" json:"rol"`
}

type Producto struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Lote         string    `gorm:"not null"                   json:"lote"`
	Nombre       string    `gorm:"not null"                   json:"nombre"`
	Precio       float64   `gorm:"not null"                   json:"precio"`
	Cantidad     int       `gorm:"not null;check:cantidad>=0" json:"cantidad"`
	FechaIngreso time.Time `gorm:"type:date;not null"         json:"fechaIngreso"`
}

type Compra struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UsuarioID uint            `gorm:"index;not null"           json:"usuarioId"`
	Usuario   *Usuario        `gorm:"foreignKey:UsuarioID"     json:"usuario,omitempty"`
	Fecha     time.Time       `gorm:"not null"                 json:"fecha"`
	Total     float64         `gorm:"not null"                 json:"total"`
	Detalles  []CompraDetalle `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE" json:"detalles,omitempty"`
}

// CompraDetalle snapshots nombre, lote and precio at purchase time so the
// ledger stays intact when the catalog changes afterwards.
type CompraDetalle struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	CompraID       uint    `gorm:"index;not null"            json:"compraId"`
	ProductoID     uint    `gorm:"index;not null"            json:"productoId"`
	NombreProducto string  `gorm:"not null"                  json:"nombreProducto"`
	Lote           string  `gorm:"not null"                  json:"lote"`
	Cantidad       int     `gorm:"not null;check:cantidad>0" json:"cantidad"`
	PrecioUnitario float64 `gorm:"not null"                  json:"precioUnitario"`
	Subtotal       float64 `gorm:"not null"                  json:"subtotal"`
}
