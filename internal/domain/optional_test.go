package domain

import (
	"encoding/json"
	"testing"
)

func TestOptionalThreeWayDecode(t *testing.T) {
	type payload struct {
		StudyTime Optional[float64] `json:"study_time"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("absent: %v", err)
	}
	if absent.StudyTime.Set {
		t.Fatalf("absent key must not be marked set")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"study_time": null}`), &null); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !null.StudyTime.Set || null.StudyTime.Valid {
		t.Fatalf("null must be set and invalid, got %+v", null.StudyTime)
	}

	var value payload
	if err := json.Unmarshal([]byte(`{"study_time": 12.5}`), &value); err != nil {
		t.Fatalf("value: %v", err)
	}
	if !value.StudyTime.Set || !value.StudyTime.Valid || value.StudyTime.Value != 12.5 {
		t.Fatalf("value decode %+v", value.StudyTime)
	}

	var bad payload
	if err := json.Unmarshal([]byte(`{"study_time": "soon"}`), &bad); err == nil {
		t.Fatalf("type mismatch must fail")
	}
}
