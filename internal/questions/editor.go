package questions

import "fmt"

// Row is one editable question. ID is stable across reorders.
type Row struct {
	ID   uint64
	Text string
}

// Editor is a scratch copy of a store's list. Nothing reaches the
// store until Save.
type Editor struct {
	store  *Store
	rows   []Row
	nextID uint64
}

// NewEditor starts an edit session over the store's current list.
func (s *Store) NewEditor() *Editor {
	e := &Editor{store: s}
	for _, q := range s.Questions() {
		e.rows = append(e.rows, Row{ID: e.newID(), Text: q})
	}
	return e
}

func (e *Editor) newID() uint64 {
	id := e.nextID
	e.nextID++
	return id
}

// Rows returns a copy of the rows in display order.
func (e *Editor) Rows() []Row {
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}

// Add appends an empty row and returns its ID.
func (e *Editor) Add() uint64 {
	id := e.newID()
	e.rows = append(e.rows, Row{ID: id})
	return id
}

// Remove deletes the row with the given ID.
func (e *Editor) Remove(id uint64) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("question row %d not found", id)
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	return nil
}

// SetText updates the text of a row.
func (e *Editor) SetText(id uint64, text string) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("question row %d not found", id)
	}
	e.rows[i].Text = text
	return nil
}

// Move takes the row at index from out and reinserts it at index to.
func (e *Editor) Move(from, to int) error {
	if from < 0 || from >= len(e.rows) || to < 0 || to >= len(e.rows) {
		return fmt.Errorf("move %d -> %d out of range (%d rows)", from, to, len(e.rows))
	}
	if from == to {
		return nil
	}
	row := e.rows[from]
	e.rows = append(e.rows[:from], e.rows[from+1:]...)
	e.rows = append(e.rows[:to], append([]Row{row}, e.rows[to:]...)...)
	return nil
}

// Save writes the row texts, in order, back to the store.
func (e *Editor) Save() {
	list := make([]string, len(e.rows))
	for i, r := range e.rows {
		list[i] = r.Text
	}
	e.store.Edit(list)
}

func (e *Editor) indexOf(id uint64) int {
	for i, r := range e.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
