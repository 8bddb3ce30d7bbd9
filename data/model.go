package data

import (
	"context"
	"time"

	"github.com/pitabwire/util"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

type BaseModelI interface {
	GetID() string
	GetVersion() uint
}

// BaseModel base table struct to be extended by other models.
type BaseModel struct {
	ID         string `gorm:"type:varchar(50);primary_key"`
	CreatedAt  time.Time
	ModifiedAt time.Time
	Version    uint           `gorm:"DEFAULT 0"`
	DeletedAt  gorm.DeletedAt `sql:"index"`
}

func (model *BaseModel) GetID() string {
	return model.ID
}

// GenID creates a new id for model if its not existent.
func (model *BaseModel) GenID(_ context.Context) {
	if model.ID == "" {
		model.ID = util.IDString()
	}
}

// ValidXID Validates that the supplied string is an xid.
func (model *BaseModel) ValidXID(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

func (model *BaseModel) GetVersion() uint {
	return model.Version
}

// BeforeSave Ensures time stamps are filled before a row is written.
func (model *BaseModel) BeforeSave(db *gorm.DB) error {
	return model.BeforeCreate(db)
}

func (model *BaseModel) BeforeCreate(db *gorm.DB) error {
	if model.Version <= 0 {
		now := time.Now()
		model.CreatedAt = now
		model.ModifiedAt = now
		model.Version = 1
	}

	model.GenID(db.Statement.Context)
	return nil
}

// BeforeUpdate Updates time stamp every time a row is updated.
func (model *BaseModel) BeforeUpdate(_ *gorm.DB) error {
	model.ModifiedAt = time.Now()
	model.Version++
	return nil
}

// Translation is a persisted per-language field value associated with a
// model instance. One row exists per translated field per language per
// object; the composite index keeps that association unique.
type Translation struct {
	BaseModel

	Identifier string `gorm:"type:varchar(255);index:idx_translation_lookup,unique"`
	ObjectID   string `gorm:"type:varchar(50);index:idx_translation_lookup,unique"`
	Language   string `gorm:"type:varchar(10);index:idx_translation_lookup,unique"`
	FieldName  string `gorm:"type:varchar(255);index:idx_translation_lookup,unique"`
	FieldValue string `gorm:"type:text"`
}

func (t *Translation) TableName() string {
	return "polyglot_translations"
}
