package logging

import (
	"testing"
)

func TestConstants(t *testing.T) {
	if FieldFile == "" {
		t.Error("FieldFile constant should not be empty")
	}
	if FieldWBSE == "" {
		t.Error("FieldWBSE constant should not be empty")
	}
	if FieldStage == "" {
		t.Error("FieldStage constant should not be empty")
	}
	if FieldRunID == "" {
		t.Error("FieldRunID constant should not be empty")
	}
	if FieldInputFile == "" {
		t.Error("FieldInputFile constant should not be empty")
	}
	if FieldOutputFile == "" {
		t.Error("FieldOutputFile constant should not be empty")
	}
}
