package rpcerr

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// 1. Error construction and accessors
// ============================================================================

func TestError_Accessors(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := Classify(420, "FLOOD_WAIT_30",
		WithMethod("messages.SendMessage"),
		WithTimestamp(ts),
	)

	if err.Method() != "messages.SendMessage" {
		t.Errorf("Method() = %q, want messages.SendMessage", err.Method())
	}
	if !err.Timestamp().Equal(ts) {
		t.Errorf("Timestamp() = %v, want %v", err.Timestamp(), ts)
	}
	if !err.IsRetryable() {
		t.Error("flood errors should be retryable")
	}
}

func TestError_Message(t *testing.T) {
	err := Classify(400, "MESSAGE_EMPTY")
	msg := err.Error()
	if !strings.Contains(msg, "400") {
		t.Errorf("Error() = %q, want the category code included", msg)
	}
	if !strings.Contains(msg, "MESSAGE_EMPTY") {
		t.Errorf("Error() = %q, want the raw tag included", msg)
	}
}

func TestError_WithMessage(t *testing.T) {
	err := Classify(400, "MESSAGE_EMPTY", WithMessage("outgoing text was blank"))
	if !strings.Contains(err.Error(), "outgoing text was blank") {
		t.Errorf("Error() = %q, want the override message", err.Error())
	}
}

func TestError_DefaultTimestamp(t *testing.T) {
	err := Classify(400, "MESSAGE_EMPTY")
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should default to classification time")
	}
}

// ============================================================================
// 2. JSON round trip
// ============================================================================

func TestError_JSONRoundTrip(t *testing.T) {
	orig := Classify(420, "FLOOD_WAIT_30", WithMethod("messages.SendMessage"))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored Error
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if restored.Category() != orig.Category() {
		t.Errorf("Category() = %v, want %v", restored.Category(), orig.Category())
	}
	if restored.Kind() != orig.Kind() {
		t.Errorf("Kind() = %v, want %v", restored.Kind(), orig.Kind())
	}
	if restored.Tag() != orig.Tag() {
		t.Errorf("Tag() = %q, want %q", restored.Tag(), orig.Tag())
	}
	v, ok := restored.Value()
	if !ok || v != 30 {
		t.Errorf("Value() = (%d, %v), want (30, true)", v, ok)
	}
	if restored.Method() != "messages.SendMessage" {
		t.Errorf("Method() = %q, want messages.SendMessage", restored.Method())
	}
}

func TestError_JSONFields(t *testing.T) {
	err := Classify(400, "MESSAGE_EMPTY")
	data, merr := json.Marshal(err)
	if merr != nil {
		t.Fatalf("Marshal failed: %v", merr)
	}

	var m map[string]interface{}
	if uerr := json.Unmarshal(data, &m); uerr != nil {
		t.Fatalf("Unmarshal to map failed: %v", uerr)
	}
	if m["code"] != float64(400) {
		t.Errorf("code = %v, want 400", m["code"])
	}
	if m["tag"] != "MESSAGE_EMPTY" {
		t.Errorf("tag = %v, want MESSAGE_EMPTY", m["tag"])
	}
	if _, present := m["value"]; present {
		t.Error("value should be omitted when absent")
	}
}

// ============================================================================
// 3. Category and kind tables
// ============================================================================

func TestCategoryForCode(t *testing.T) {
	known := []int{303, 400, 401, 403, 406, 420, 500}
	for _, code := range known {
		cat, ok := CategoryForCode(code)
		if !ok {
			t.Errorf("CategoryForCode(%d) not recognized", code)
		}
		if cat.Code() != code {
			t.Errorf("CategoryForCode(%d).Code() = %d", code, cat.Code())
		}
	}

	for _, code := range []int{0, -1, 404, 429, 520, 999} {
		cat, ok := CategoryForCode(code)
		if ok {
			t.Errorf("CategoryForCode(%d) recognized, want unknown", code)
		}
		if cat != CategoryUnknown {
			t.Errorf("CategoryForCode(%d) = %v, want %v", code, cat, CategoryUnknown)
		}
	}
}

func TestCategory_Retryable(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryFlood, true},
		{CategoryInternalServer, true},
		{CategorySeeOther, false},
		{CategoryBadRequest, false},
		{CategoryUnauthorized, false},
		{CategoryForbidden, false},
		{CategoryNotAcceptable, false},
		{CategoryUnknown, false},
	}
	for _, tt := range tests {
		if got := tt.category.IsRetryable(); got != tt.want {
			t.Errorf("%v.IsRetryable() = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestKind_ParentCategory(t *testing.T) {
	tests := []struct {
		kind Kind
		want Category
	}{
		{KindFloodWait, CategoryFlood},
		{KindMessageEmpty, CategoryBadRequest},
		{KindPhoneMigrate, CategorySeeOther},
		{KindSessionRevoked, CategoryUnauthorized},
		{KindChatWriteForbidden, CategoryForbidden},
		{KindAuthKeyDuplicated, CategoryNotAcceptable},
		{KindInternalServer, CategoryInternalServer},
		{KindUnknown, CategoryUnknown},
		{Kind("NOT_A_KIND"), CategoryUnknown},
	}
	for _, tt := range tests {
		if got := tt.kind.ParentCategory(); got != tt.want {
			t.Errorf("%v.ParentCategory() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestRegistered_EveryKindHasOneParent(t *testing.T) {
	seen := make(map[Kind]Category)
	for _, rk := range Registered() {
		if prev, dup := seen[rk.Kind]; dup && prev != rk.Category {
			t.Errorf("kind %v registered under both %v and %v", rk.Kind, prev, rk.Category)
		}
		seen[rk.Kind] = rk.Category
		if rk.Description == "" {
			t.Errorf("kind %v has no description", rk.Kind)
		}
		if !rk.Generic && rk.Kind.ParentCategory() != rk.Category {
			t.Errorf("kind %v: ParentCategory() = %v, registered under %v",
				rk.Kind, rk.Kind.ParentCategory(), rk.Category)
		}
	}
	if len(seen) < 40 {
		t.Errorf("registry has %d kinds, expected the full table", len(seen))
	}
}
