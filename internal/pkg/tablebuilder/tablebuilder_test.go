package tablebuilder

import (
	"errors"
	"testing"
)

func TestWizardHappyPath(t *testing.T) {
	d := New()
	if d.State() != StateTemplate {
		t.Fatalf("initial state = %s", d.State())
	}
	d1, err := d.ChooseTemplate("kwl")
	if err != nil {
		t.Fatalf("ChooseTemplate: %v", err)
	}
	if d.State() != StateTemplate {
		t.Fatalf("original draft mutated")
	}
	d2, err := d1.SetDimensions(2, 3)
	if err != nil {
		t.Fatalf("SetDimensions: %v", err)
	}
	cells := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	d3, err := d2.Fill(nil, cells)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	cells[0][0] = "mutated"

	tbl, err := d3.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if tbl.Headers[0] != "Know" || tbl.Headers[2] != "Learned" {
		t.Fatalf("template headers lost: %v", tbl.Headers)
	}
	if tbl.Rows[0][0] != "a" {
		t.Fatalf("draft shares caller slice: %v", tbl.Rows)
	}
}

func TestWizardRejectsOutOfOrderTransitions(t *testing.T) {
	if _, err := New().SetDimensions(1, 1); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
	if _, err := New().Result(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
	if _, err := New().Back(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState, got %v", err)
	}
	if _, err := New().ChooseTemplate("nope"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestBackKeepsDraft(t *testing.T) {
	d, _ := New().ChooseTemplate("t_chart")
	d, _ = d.SetDimensions(1, 2)
	back, err := d.Back()
	if err != nil || back.State() != StateDimensions {
		t.Fatalf("Back: state=%s err=%v", back.State(), err)
	}
	again, err := back.SetDimensions(3, 2)
	if err != nil || again.State() != StateData {
		t.Fatalf("re-enter data: %v", err)
	}
}

func TestBuildValidatesShape(t *testing.T) {
	_, err := Build(Request{Template: "blank", Rows: 2, Cols: 2, Cells: [][]string{{"x", "y"}}})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
	_, err = Build(Request{Template: "blank", Rows: 0, Cols: 2})
	if !errors.Is(err, ErrDimensions) {
		t.Fatalf("expected ErrDimensions, got %v", err)
	}
	tbl, err := Build(Request{Template: "cause_effect", Rows: 1, Cells: [][]string{{"rain", "flood"}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tbl.Headers) != 2 || tbl.Headers[1] != "Effect" {
		t.Fatalf("unexpected headers %v", tbl.Headers)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse([]byte(`{"template":"kwl","headers":["K","W","L"],"rows":[["a","b","c"]]}`)); err != nil {
		t.Fatalf("Parse valid table: %v", err)
	}
	if _, err := Parse([]byte(`{"headers":["K","W"],"rows":[["a"]]}`)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
	if _, err := Parse([]byte(`{"headers":[],"rows":[]}`)); !errors.Is(err, ErrDimensions) {
		t.Fatalf("expected ErrDimensions, got %v", err)
	}
	if _, err := Parse([]byte(`not json`)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for bad json, got %v", err)
	}
}
