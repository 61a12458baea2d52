package activity

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/castellan-dev/castellan/internal/models"
	"gorm.io/gorm"
)

// Register wires automatic interception into the DB handle: every successful
// create/update of a tracked entity logs a generic "created"/"updated" row,
// every delete logs "deleted" before the row is removed, and component
// changes re-aggregate the spare-parts inventory for their type.
func Register(db *gorm.DB) error {
	if err := db.Callback().Create().After("gorm:create").
		Register("activity:after_create", afterCreate); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}
	if err := db.Callback().Update().After("gorm:update").
		Register("activity:after_update", afterUpdate); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}
	if err := db.Callback().Delete().Before("gorm:delete").
		Register("activity:before_delete", beforeDelete); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}
	if err := db.Callback().Delete().After("gorm:delete").
		Register("activity:after_delete", afterDelete); err != nil {
		return fmt.Errorf("register post-delete callback: %w", err)
	}
	return nil
}

func afterCreate(tx *gorm.DB) {
	logMutation(tx, models.ActionCreated)
	syncComponentInventory(tx)
}

func afterUpdate(tx *gorm.DB) {
	logMutation(tx, models.ActionUpdated)
	syncComponentInventory(tx)
}

// beforeDelete logs "deleted" while the row still exists so the entity's
// attributes are readable for the snapshot.
func beforeDelete(tx *gorm.DB) {
	logMutation(tx, models.ActionDeleted)
}

func afterDelete(tx *gorm.DB) {
	syncComponentInventory(tx)
}

func logMutation(tx *gorm.DB, action models.Action) {
	if tx.Error != nil {
		return
	}
	ctx := tx.Statement.Context
	if isRecording(ctx) || isSuppressed(ctx) {
		return
	}
	forEachEntity(tx, func(entity any) {
		recordAuto(tx, entity, action)
	})
}

// recordAuto writes the generic interception row for one entity. Failures
// never abort the save/delete that triggered them.
func recordAuto(tx *gorm.DB, entity any, action models.Action) {
	kind, id, ok := entityMeta(entity)
	if !ok || id == 0 {
		return
	}

	// Initialized detaches the session from the running statement; without it
	// the log insert would re-execute the intercepted query.
	message := fmt.Sprintf("%s %s %s", typeLabel(kind), shortLabel(entity), action)
	_ = Record(tx.Statement.Context, tx.Session(&gorm.Session{NewDB: true, Initialized: true}), Entry{
		EventType: kind,
		Action:    action,
		Message:   message,
		Detail:    detailFor(entity),
		Entity:    entity,
	})
}

// syncComponentInventory re-aggregates the spare-parts inventory row for the
// component's type after any component save or delete. The sync runs inside
// a suppressed scope so it cannot produce a duplicate activity entry, and a
// failure never propagates to the triggering operation.
func syncComponentInventory(tx *gorm.DB) {
	if tx.Error != nil {
		return
	}
	forEachEntity(tx, func(entity any) {
		c, ok := entity.(*models.Component)
		if !ok || c.ComponentTypeID == 0 {
			return
		}
		ctx := Suppress(tx.Statement.Context)
		db := tx.Session(&gorm.Session{NewDB: true, Initialized: true}).WithContext(ctx)
		if err := models.SyncSparePartsForType(db, c.ComponentTypeID); err != nil {
			slog.Warn("activity: spare parts sync failed",
				"component_type_id", c.ComponentTypeID, "error", err)
		}
	})
}

// forEachEntity visits the statement's destination value(s): a single struct
// for the common case, each element for batch operations.
func forEachEntity(tx *gorm.DB, fn func(any)) {
	rv := tx.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i)
			if el.Kind() == reflect.Pointer {
				if el.IsNil() {
					continue
				}
				fn(el.Interface())
			} else if el.CanAddr() {
				fn(el.Addr().Interface())
			}
		}
	case reflect.Struct:
		if rv.CanAddr() {
			fn(rv.Addr().Interface())
		}
	}
}
