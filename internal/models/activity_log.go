package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType is the category an activity entry is filed under,
// one per tracked entity kind.
type EventType string

const (
	EventAsset         EventType = "asset"
	EventRequisition   EventType = "requisition"
	EventInvoice       EventType = "invoice"
	EventAssignment    EventType = "assignment"
	EventComponent     EventType = "component"
	EventUser          EventType = "user"
	EventCompany       EventType = "company"
	EventLocation      EventType = "location"
	EventDepartment    EventType = "department"
	EventVendor        EventType = "vendor"
	EventCategory      EventType = "category"
	EventAssetModel    EventType = "asset_model"
	EventComponentType EventType = "component_type"
	EventSparePart     EventType = "spare_part"
	EventMaintenance   EventType = "maintenance"
	EventLineItem      EventType = "line_item"
	EventFulfillment   EventType = "fulfillment"
)

// Action is what happened to the entity
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionAssigned      Action = "assigned"
	ActionUnassigned    Action = "unassigned"
	ActionStatusChanged Action = "status_changed"
	ActionDuplicated    Action = "duplicated"
	ActionApproved      Action = "approved"
	ActionFulfilled     Action = "fulfilled"
	ActionCancelled     Action = "cancelled"
	ActionActivated     Action = "activated"
	ActionDeactivated   Action = "deactivated"
	ActionBulkDeleted   Action = "bulk_deleted"
	ActionBulkStatus    Action = "bulk_status"
	ActionPaid          Action = "paid"
)

// ActivityLog is the append-only audit trail. One row per meaningful event;
// rows are never updated or deleted by the system. The affected entity is
// referenced polymorphically as (entity_type, entity_id) and may dangle if
// the entity is deleted later - the textual snapshots survive.
type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Timestamp time.Time `gorm:"not null;index:idx_activity_type_ts,priority:2;index" json:"timestamp"`
	EventType EventType `gorm:"not null;index:idx_activity_type_ts,priority:1" json:"event_type"`
	Action    Action    `gorm:"not null;index" json:"action"`

	Message string `gorm:"size:512;not null" json:"message"` // e.g. "Asset LAPTOP-042 created"
	Detail  string `gorm:"size:512" json:"detail,omitempty"` // status display, assignee name, ...

	// Who performed the action (null for system events)
	ActorID   *uuid.UUID `gorm:"type:text" json:"actor_id,omitempty"`
	Actor     *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	ActorName string     `gorm:"size:255" json:"actor_name,omitempty"` // display name snapshot

	// Polymorphic reference to the affected entity
	EntityType string `gorm:"size:30;index:idx_activity_entity,priority:1" json:"entity_type,omitempty"`
	EntityID   uint   `gorm:"index:idx_activity_entity,priority:2" json:"entity_id,omitempty"`
	EntityRepr string `gorm:"size:512" json:"entity_repr,omitempty"` // snapshot, survives deletion

	URL string `gorm:"size:512" json:"url,omitempty"` // link for the activity feed

	// Structured change data, field -> [old, new]
	Changes map[string][]any `gorm:"serializer:json" json:"changes,omitempty"`
}

// TableName ensures GORM uses the "activity_log" table
func (ActivityLog) TableName() string {
	return "activity_log"
}

func (l *ActivityLog) String() string {
	return fmt.Sprintf("[%s] %s/%s: %s", l.Timestamp.Format("2006-01-02 15:04"), l.EventType, l.Action, l.Message)
}

// Icon returns the single-letter badge for the activity feed
func (l *ActivityLog) Icon() string {
	if icon, ok := activityIcons[l.EventType]; ok {
		return icon
	}
	return "?"
}

var activityIcons = map[EventType]string{
	EventAsset:         "A",
	EventRequisition:   "R",
	EventInvoice:       "I",
	EventAssignment:    "X",
	EventComponent:     "C",
	EventUser:          "U",
	EventCompany:       "O",
	EventLocation:      "L",
	EventDepartment:    "D",
	EventVendor:        "V",
	EventCategory:      "G",
	EventAssetModel:    "M",
	EventComponentType: "T",
	EventSparePart:     "S",
	EventMaintenance:   "W",
	EventLineItem:      "N",
	EventFulfillment:   "F",
}
