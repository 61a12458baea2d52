// Package activity provides the append-only audit trail: a Record entry
// point for hand-written entries and GORM callbacks that automatically log
// create/update/delete for every tracked entity.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/castellan-dev/castellan/internal/models"
	"gorm.io/gorm"
)

const (
	messageLimit   = 512
	actorNameLimit = 255
)

// Entry describes one activity log row to record. Only EventType, Action and
// Message are required; Actor defaults to the ambient request user, ActorName
// to the actor's display name, and Detail/URL/entity fields are derived from
// Entity when present.
type Entry struct {
	EventType models.EventType
	Action    models.Action
	Message   string
	Detail    string
	Entity    any // the affected model instance, optional
	URL       string
	Actor     *models.User
	ActorName string
	Changes   map[string][]any // field -> [old, new]
}

// Record appends one activity log row. An unresolvable actor results in a
// row with a null actor rather than an error; failures to derive display
// fields degrade to empty strings.
func Record(ctx context.Context, db *gorm.DB, e Entry) error {
	actor := e.Actor
	if actor == nil {
		actor = ActorFrom(ctx)
	}

	actorName := e.ActorName
	if actorName == "" && actor != nil {
		// Fresh session: a not-found employee lookup must not leave an error
		// on the handle used for the insert below
		actorName = actor.DisplayName(db.Session(&gorm.Session{}))
	}

	row := models.ActivityLog{
		Timestamp: time.Now().UTC(),
		EventType: e.EventType,
		Action:    e.Action,
		Message:   truncate(e.Message, messageLimit),
		Detail:    truncate(e.Detail, messageLimit),
		ActorName: truncate(actorName, actorNameLimit),
		URL:       truncate(e.URL, messageLimit),
		Changes:   e.Changes,
	}
	if actor != nil {
		id := actor.ID
		row.ActorID = &id
	}

	if e.Entity != nil {
		if kind, id, ok := entityMeta(e.Entity); ok {
			row.EntityType = string(kind)
			row.EntityID = id
		}
		row.EntityRepr = truncate(entityString(e.Entity), messageLimit)
		if row.URL == "" {
			row.URL = truncate(urlFor(e.Entity), messageLimit)
		}
	}

	// The insert itself must never be intercepted
	if err := db.WithContext(markRecording(ctx)).Create(&row).Error; err != nil {
		slog.Error("activity: failed to record entry",
			"event_type", e.EventType, "action", e.Action, "error", err)
		return err
	}
	return nil
}

// entityMeta maps a tracked entity to its event type and id. The tracked set
// is closed; anything else reports ok=false and is ignored by interception.
func entityMeta(entity any) (models.EventType, uint, bool) {
	switch v := entity.(type) {
	case *models.Asset:
		return models.EventAsset, v.ID, true
	case *models.Requisition:
		return models.EventRequisition, v.ID, true
	case *models.PurchaseInvoice:
		return models.EventInvoice, v.ID, true
	case *models.AssetAssignment:
		return models.EventAssignment, v.ID, true
	case *models.Component:
		return models.EventComponent, v.ID, true
	case *models.ComponentHistory:
		return models.EventComponent, v.ID, true
	case *models.Employee:
		return models.EventUser, v.ID, true
	case *models.Company:
		return models.EventCompany, v.ID, true
	case *models.Location:
		return models.EventLocation, v.ID, true
	case *models.Department:
		return models.EventDepartment, v.ID, true
	case *models.Vendor:
		return models.EventVendor, v.ID, true
	case *models.Category:
		return models.EventCategory, v.ID, true
	case *models.AssetModel:
		return models.EventAssetModel, v.ID, true
	case *models.ComponentType:
		return models.EventComponentType, v.ID, true
	case *models.SparePartsInventory:
		return models.EventSparePart, v.ID, true
	case *models.MaintenanceRecord:
		return models.EventMaintenance, v.ID, true
	case *models.InvoiceLineItem:
		return models.EventLineItem, v.ID, true
	case *models.RequisitionItem:
		return models.EventFulfillment, v.ID, true
	}
	return "", 0, false
}

// urlFor builds the feed link for an entity. Unresolvable kinds or missing
// identifiers produce an empty string, never an error.
func urlFor(entity any) string {
	var path string
	var id uint

	switch v := entity.(type) {
	case *models.Asset:
		path, id = "/assets/%d", v.ID
	case *models.Requisition:
		path, id = "/requisitions/%d", v.ID
	case *models.PurchaseInvoice:
		path, id = "/invoices/%d", v.ID
	case *models.AssetAssignment:
		path, id = "/assets/%d", v.AssetID
	case *models.Component:
		path, id = "/components/%d", v.ID
	case *models.ComponentHistory:
		path, id = "/components/%d", v.ComponentID
	case *models.Employee:
		path, id = "/employees/%d", v.ID
	case *models.Company:
		path, id = "/companies/%d", v.ID
	case *models.Location:
		path, id = "/locations/%d", v.ID
	case *models.Department:
		path, id = "/departments/%d", v.ID
	case *models.Vendor:
		path, id = "/vendors/%d", v.ID
	case *models.Category:
		path, id = "/categories/%d", v.ID
	case *models.AssetModel:
		path, id = "/asset-models/%d", v.ID
	case *models.ComponentType:
		path, id = "/component-types/%d", v.ID
	case *models.SparePartsInventory:
		path, id = "/spare-parts/%d", v.ID
	case *models.MaintenanceRecord:
		path, id = "/maintenance/%d", v.ID
	case *models.InvoiceLineItem:
		path, id = "/invoices/%d", v.InvoiceID
	case *models.RequisitionItem:
		path, id = "/requisitions/%d", v.RequisitionID
	default:
		return ""
	}

	if id == 0 {
		return ""
	}
	return fmt.Sprintf(path, id)
}

// labelFields are checked in priority order for a short human-friendly label
var labelFields = []string{
	"AssetTag",
	"ComponentTag",
	"RequisitionNumber",
	"InvoiceNumber",
	"Name",
	"VendorName",
	"TypeName",
	"EmployeeID",
}

// shortLabel returns a short label for the entity, trying the candidate
// fields before falling back to its string form. Panics while reading an
// entity are swallowed.
func shortLabel(entity any) (label string) {
	defer func() {
		if recover() != nil {
			label = ""
		}
	}()

	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for _, name := range labelFields {
			f := rv.FieldByName(name)
			if !f.IsValid() {
				continue
			}
			if f.Kind() == reflect.Pointer {
				if f.IsNil() {
					continue
				}
				f = f.Elem()
			}
			if s, ok := f.Interface().(string); ok && s != "" {
				return s
			}
		}
	}
	return entityString(entity)
}

type statusDisplayer interface{ StatusDisplay() string }
type paymentStatusDisplayer interface{ PaymentStatusDisplay() string }
type actionDisplayer interface{ ActionDisplay() string }

// detailFor returns a secondary detail string, typically a status display.
// Accessor panics degrade to an empty string.
func detailFor(entity any) (detail string) {
	defer func() {
		if recover() != nil {
			detail = ""
		}
	}()

	switch v := entity.(type) {
	case statusDisplayer:
		return v.StatusDisplay()
	case paymentStatusDisplayer:
		return v.PaymentStatusDisplay()
	case actionDisplayer:
		return v.ActionDisplay()
	}
	return ""
}

func entityString(entity any) string {
	if s, ok := entity.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", entity)
}

// typeLabel turns an event type into a message prefix, e.g.
// "asset_model" -> "Asset Model"
func typeLabel(kind models.EventType) string {
	words := strings.Split(string(kind), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// truncate cuts s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
