package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Customer is a registered storefront account.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID           int64      `bun:",pk,autoincrement"`
	FirstName    string     `bun:"first_name,notnull"`
	LastName     string     `bun:"last_name,notnull"`
	Email        string     `bun:"email,notnull,unique"`
	Phone        string     `bun:"phone,notnull"`
	PasswordHash string     `bun:"password_hash,notnull"`
	LastLogin    *time.Time `bun:"last_login"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Worker is a staff account used by the back office.
type Worker struct {
	bun.BaseModel `bun:"table:workers,alias:w"`

	ID           int64     `bun:",pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash"`
	Role         string    `bun:"role"`
	Status       string    `bun:"status"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Worker defaults applied on creation.
const (
	DefaultWorkerRole   = "Trabalhador"
	DefaultWorkerStatus = "Online"
)
