package search

// Session caches the active query and its matches so the search bar can be
// hidden and re-shown without losing position.
type Session struct {
	query   string
	matches []Match
	cursor  int
	visible bool
}

func NewSession() *Session {
	return &Session{cursor: -1}
}

// SetQuery recomputes matches against text. The cursor resets to the first
// match when the query changes.
func (s *Session) SetQuery(query, text string) {
	changed := query != s.query
	s.query = query
	s.matches = Find(query, text)
	if len(s.matches) == 0 {
		s.cursor = -1
		return
	}
	if changed || s.cursor < 0 || s.cursor >= len(s.matches) {
		s.cursor = 0
	}
}

// Refresh re-runs the cached query against new text, keeping the cursor in
// range.
func (s *Session) Refresh(text string) {
	s.matches = Find(s.query, text)
	if len(s.matches) == 0 {
		s.cursor = -1
		return
	}
	if s.cursor < 0 || s.cursor >= len(s.matches) {
		s.cursor = 0
	}
}

func (s *Session) Query() string    { return s.query }
func (s *Session) Matches() []Match { return s.matches }
func (s *Session) Visible() bool    { return s.visible }

// Current returns the match under the cursor, if any.
func (s *Session) Current() (Match, bool) {
	if s.cursor < 0 || s.cursor >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.cursor], true
}

// Position reports the 1-based cursor position and the total match count for
// the status line.
func (s *Session) Position() (int, int) {
	if s.cursor < 0 {
		return 0, len(s.matches)
	}
	return s.cursor + 1, len(s.matches)
}

// Next advances to the next match, wrapping around at the end.
func (s *Session) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.cursor = (s.cursor + 1) % len(s.matches)
	return s.matches[s.cursor], true
}

// Previous moves to the previous match, wrapping around at the start.
func (s *Session) Previous() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = len(s.matches) - 1
	}
	return s.matches[s.cursor], true
}

// Show makes the search bar visible. The cached query survives hide/show.
func (s *Session) Show() { s.visible = true }

// Hide hides the search bar without clearing the cached query.
func (s *Session) Hide() { s.visible = false }

// Toggle flips visibility and reports the new state.
func (s *Session) Toggle() bool {
	s.visible = !s.visible
	return s.visible
}
