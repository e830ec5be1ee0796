package screens

// MenuState tracks which item's action menu is open on the feed screen.
// At most one menu is open at any time; it lives only as long as the
// screen instance and is never persisted or shared between screens.
type MenuState struct {
	openID int64 // 0 means no menu is open
}

// Toggle opens the menu for id, closing any other open menu first. If
// id's menu is already open, it closes instead.
func (m *MenuState) Toggle(id int64) {
	if m.openID == id {
		m.openID = 0
		return
	}
	m.openID = id
}

// Close closes whichever menu is open.
func (m *MenuState) Close() {
	m.openID = 0
}

// Open returns the id of the item whose menu is open.
func (m *MenuState) Open() (int64, bool) {
	return m.openID, m.openID != 0
}

// IsOpen reports whether id's menu is open.
func (m *MenuState) IsOpen(id int64) bool {
	return m.openID != 0 && m.openID == id
}
