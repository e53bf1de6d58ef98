// Package tablebuilder models the graphic-organizer table wizard as a state machine over an
// immutable draft: template -> dimensions -> data -> result.
package tablebuilder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type State string

const (
	StateTemplate   State = "template"
	StateDimensions State = "dimensions"
	StateData       State = "data"
	StateResult     State = "result"
)

const (
	MaxRows = 30
	MaxCols = 10
)

var (
	ErrWrongState      = errors.New("transition not allowed in current state")
	ErrUnknownTemplate = errors.New("unknown table template")
	ErrDimensions      = errors.New("invalid table dimensions")
	ErrShape           = errors.New("table data does not match dimensions")
)

type Template struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
}

var templates = map[string]Template{
	"blank":        {Name: "blank"},
	"t_chart":      {Name: "t_chart", Headers: []string{"", ""}},
	"kwl":          {Name: "kwl", Headers: []string{"Know", "Want to Know", "Learned"}},
	"cause_effect": {Name: "cause_effect", Headers: []string{"Cause", "Effect"}},
	"compare":      {Name: "compare", Headers: []string{"Topic", "Similarities", "Differences"}},
}

// Templates lists the available templates sorted by name.
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Table is the stored JSON shape of a graphic organizer.
type Table struct {
	Template string     `json:"template"`
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
}

// Draft is never mutated; every transition returns a new value.
type Draft struct {
	state    State
	template string
	rows     int
	cols     int
	headers  []string
	cells    [][]string
}

func New() Draft { return Draft{state: StateTemplate} }

func (d Draft) State() State { return d.state }

func (d Draft) ChooseTemplate(name string) (Draft, error) {
	if d.state != StateTemplate {
		return d, fmt.Errorf("%w: choose template in %s", ErrWrongState, d.state)
	}
	tpl, ok := templates[strings.TrimSpace(name)]
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	next := d.clone()
	next.template = tpl.Name
	next.headers = append([]string(nil), tpl.Headers...)
	next.cols = len(tpl.Headers)
	next.state = StateDimensions
	return next, nil
}

func (d Draft) SetDimensions(rows, cols int) (Draft, error) {
	if d.state != StateDimensions {
		return d, fmt.Errorf("%w: set dimensions in %s", ErrWrongState, d.state)
	}
	if rows < 1 || rows > MaxRows || cols < 1 || cols > MaxCols {
		return d, fmt.Errorf("%w: %dx%d", ErrDimensions, rows, cols)
	}
	next := d.clone()
	next.rows, next.cols = rows, cols
	headers := make([]string, cols)
	copy(headers, next.headers)
	next.headers = headers
	next.cells = make([][]string, rows)
	for i := range next.cells {
		next.cells[i] = make([]string, cols)
	}
	next.state = StateData
	return next, nil
}

// Fill supplies headers and cells. Nil headers keep the template headers.
func (d Draft) Fill(headers []string, cells [][]string) (Draft, error) {
	if d.state != StateData {
		return d, fmt.Errorf("%w: fill in %s", ErrWrongState, d.state)
	}
	if headers != nil && len(headers) != d.cols {
		return d, fmt.Errorf("%w: %d headers for %d columns", ErrShape, len(headers), d.cols)
	}
	if len(cells) != d.rows {
		return d, fmt.Errorf("%w: %d rows for %d", ErrShape, len(cells), d.rows)
	}
	for i, r := range cells {
		if len(r) != d.cols {
			return d, fmt.Errorf("%w: row %d has %d cells for %d columns", ErrShape, i, len(r), d.cols)
		}
	}
	next := d.clone()
	if headers != nil {
		next.headers = append([]string(nil), headers...)
	}
	next.cells = copyCells(cells)
	next.state = StateResult
	return next, nil
}

func (d Draft) Back() (Draft, error) {
	next := d.clone()
	switch d.state {
	case StateResult:
		next.state = StateData
	case StateData:
		next.state = StateDimensions
	case StateDimensions:
		next.state = StateTemplate
	default:
		return d, fmt.Errorf("%w: back from %s", ErrWrongState, d.state)
	}
	return next, nil
}

func (d Draft) Result() (Table, error) {
	if d.state != StateResult {
		return Table{}, fmt.Errorf("%w: result in %s", ErrWrongState, d.state)
	}
	return Table{Template: d.template, Headers: append([]string(nil), d.headers...), Rows: copyCells(d.cells)}, nil
}

// Request drives a draft through every state in one call.
type Request struct {
	Template string     `json:"template"`
	Rows     int        `json:"rows"`
	Cols     int        `json:"cols"`
	Headers  []string   `json:"headers"`
	Cells    [][]string `json:"cells"`
}

func Build(req Request) (Table, error) {
	d, err := New().ChooseTemplate(req.Template)
	if err != nil {
		return Table{}, err
	}
	cols := req.Cols
	if cols == 0 {
		cols = d.cols
	}
	if d, err = d.SetDimensions(req.Rows, cols); err != nil {
		return Table{}, err
	}
	if d, err = d.Fill(req.Headers, req.Cells); err != nil {
		return Table{}, err
	}
	return d.Result()
}

func (t Table) JSON() ([]byte, error) { return json.Marshal(t) }

// Parse decodes a stored table and checks it against the builder limits.
func Parse(raw []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrShape, err)
	}
	if len(t.Headers) == 0 || len(t.Headers) > MaxCols || len(t.Rows) > MaxRows {
		return Table{}, fmt.Errorf("%w: %d columns, %d rows", ErrDimensions, len(t.Headers), len(t.Rows))
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return Table{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, i, len(row), len(t.Headers))
		}
	}
	return t, nil
}

func (d Draft) clone() Draft {
	out := d
	out.headers = append([]string(nil), d.headers...)
	out.cells = copyCells(d.cells)
	return out
}

func copyCells(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
